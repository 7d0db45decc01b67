package storage

import (
	"context"
	"fmt"

	"github.com/dshills/customindent/internal/config"
	"github.com/dshills/customindent/internal/indent"
)

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (indent.Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: no settings path configured", indent.ErrStorageUnavailable)
		}
		return NewFileBackend(cfg.Path), nil
	case config.BackendDynamoDB:
		return NewDynamoBackend(ctx, DynamoOptions{
			Table:    cfg.DynamoDB.Table,
			Region:   cfg.DynamoDB.Region,
			Endpoint: cfg.DynamoDB.Endpoint,
			Profile:  cfg.DynamoDB.Profile,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
