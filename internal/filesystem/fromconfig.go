package filesystem

import (
	"context"

	"github.com/objectfs/s3fs/internal/config"
	"github.com/objectfs/s3fs/internal/metrics"
	storages3 "github.com/objectfs/s3fs/internal/storage/s3"
)

// NewFromConfig wires a complete filesystem from a loaded configuration: the
// S3 client, logger, and optional metrics collector.
func NewFromConfig(ctx context.Context, cfg *config.Configuration) (*FS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.BuildLogger()

	backend, err := storages3.NewClient(ctx, cfg.Bucket, &cfg.S3, logger)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics)
	}

	return New(backend, &Options{
		RootPrefix:   cfg.RootPrefix,
		Delimiter:    cfg.Delimiter,
		Strict:       cfg.Strict,
		UploadArgs:   &cfg.Upload,
		DownloadArgs: &cfg.Download,
		Logger:       logger,
		Metrics:      collector,
	})
}
