package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/metrics"
	"github.com/raoulx24/backup-pruner/internal/retention"
	"github.com/raoulx24/backup-pruner/internal/source"
)

type runFlags struct {
	dryRun     bool
	readFrom   string
	path       string
	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prune once and exit",
		Example: `  backup-pruner run --read-from dir --path /var/backups --dry-run
  backup-pruner run --read-from s3 --s3-bucket dumps --s3-prefix db/
  backup-pruner run --config /etc/backup-pruner/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := finishConfig(cfg); err != nil {
				return err
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reader, deleter, err := source.Open(ctx, cfg.Source, log)
			if err != nil {
				return err
			}

			engine := retention.New(reader, deleter,
				retention.WithLogger(log),
				retention.WithMetrics(metrics.New(nil)),
			)
			rep, err := engine.Apply(ctx, cfg.DryRun)
			printReport(cmd, rep)
			return err
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report removals without deleting")
	cmd.Flags().StringVar(&f.readFrom, "read-from", "", "Source kind: dir, listing (alias fs), s3")
	cmd.Flags().StringVar(&f.path, "path", "", "Backup directory (dir) or listing file (listing)")
	cmd.Flags().StringVar(&f.s3Bucket, "s3-bucket", "", "S3 bucket")
	cmd.Flags().StringVar(&f.s3Prefix, "s3-prefix", "", "S3 key prefix holding the backups")
	cmd.Flags().StringVar(&f.s3Region, "s3-region", "", "S3 region")
	cmd.Flags().StringVar(&f.s3Endpoint, "s3-endpoint", "", "Endpoint of an S3-compatible store")

	return cmd
}

// apply overrides the config with the flags that were set.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if set("read-from") {
		cfg.Source.Kind = f.readFrom
	}
	if set("path") {
		cfg.Source.Path = f.path
	}
	if set("s3-bucket") {
		cfg.Source.S3.Bucket = f.s3Bucket
	}
	if set("s3-prefix") {
		cfg.Source.S3.Prefix = f.s3Prefix
	}
	if set("s3-region") {
		cfg.Source.S3.Region = f.s3Region
	}
	if set("s3-endpoint") {
		cfg.Source.S3.Endpoint = f.s3Endpoint
	}
}

func printReport(cmd *cobra.Command, rep retention.Report) {
	out := cmd.OutOrStdout()
	if rep.DryRun {
		for _, name := range rep.Removed {
			fmt.Fprintf(out, "Dry run removing: %s\n", name)
		}
		fmt.Fprintf(out, "\n%d of %d backups would be removed (today %s)\n", len(rep.Removed), rep.Backups, rep.Today)
		return
	}
	fmt.Fprintf(out, "%d of %d backups removed (today %s)\n", len(rep.Removed), rep.Backups, rep.Today)
}
