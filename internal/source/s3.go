package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/raoulx24/backup-pruner/internal/backup"
	"github.com/raoulx24/backup-pruner/internal/config"
)

// S3API is the part of *s3.Client used here.
type S3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client builds a client from the default credential chain
// (environment, shared config, instance role).
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// S3Reader lists the objects directly under a prefix ("folder").
// Every page is read; nested prefixes are not descended into.
type S3Reader struct {
	client S3API
	bucket string
	prefix string
	log    *slog.Logger
}

func NewS3Reader(client S3API, cfg config.S3Config, log *slog.Logger) *S3Reader {
	return &S3Reader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}
}

func (r *S3Reader) Read(ctx context.Context) ([]backup.Backup, error) {
	r.log.Info("querying bucket", "bucket", r.bucket, "prefix", r.prefix)

	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(r.bucket),
		Prefix:    aws.String(r.prefix),
		Delimiter: aws.String("/"),
	})

	var backups []backup.Backup
	pages := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s (page %d): %w", r.bucket, r.prefix, pages+1, err)
		}
		pages++

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			b, err := backup.New(key)
			if err != nil {
				continue
			}
			backups = append(backups, b)
		}
	}

	r.log.Info("querying bucket done", "bucket", r.bucket, "pages", pages, "backups", len(backups))
	return backups, nil
}

// S3Deleter deletes objects by key. It shares its client with the reader.
type S3Deleter struct {
	client S3API
	bucket string
	log    *slog.Logger
}

func NewS3Deleter(client S3API, cfg config.S3Config, log *slog.Logger) *S3Deleter {
	return &S3Deleter{client: client, bucket: cfg.Bucket, log: log}
}

func (d *S3Deleter) Delete(ctx context.Context, key string) error {
	d.log.Info("s3 delete", "bucket", d.bucket, "key", key)
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	d.log.Debug("s3 delete done", "key", key)
	return nil
}
