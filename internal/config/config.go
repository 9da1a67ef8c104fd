package config

import "time"

// Source kinds.
const (
	SourceDir     = "dir"     // list and delete files in a local directory
	SourceListing = "listing" // read names from a text file, never delete
	SourceS3      = "s3"      // list and delete objects in an S3 bucket
)

type Config struct {
	Source       SourceConfig   `yaml:"source"`
	DryRun       bool           `yaml:"dryRun"`
	Schedule     ScheduleConfig `yaml:"schedule"`
	Metrics      MetricsConfig  `yaml:"metrics"`
	Logging      LoggingConfig  `yaml:"logging"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
}

type SourceConfig struct {
	Kind string   `yaml:"kind"` // "dir", "listing", "s3"
	Path string   `yaml:"path"` // directory (dir) or listing file (listing)
	S3   S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"` // optional, S3-compatible stores
	ForcePathStyle bool   `yaml:"forcePathStyle"`
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron"` // standard 5-field cron, e.g. "0 3 * * *"
	RunOnStart bool   `yaml:"runOnStart"`
}

type MetricsConfig struct {
	Address string `yaml:"address"` // e.g. ":9102", empty disables the endpoint
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type ReloadConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Method       string        `yaml:"method"` // "auto", "fsnotify", "poll"
	PollInterval time.Duration `yaml:"pollInterval"`
}
