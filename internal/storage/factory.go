// Package storage selects and constructs the concrete storage engine.
package storage

import (
	"stratum/internal/storage/config"
	"stratum/internal/storage/mongo"
	"stratum/internal/storage/types"
	"stratum/pkg/model"
)

// New instantiates the backend named by cfg.Type. The returned engine is not
// yet connected; callers must invoke Connect before any other operation.
func New(cfg config.Config) (types.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, model.Validationf("storage", "%v", err)
	}

	switch cfg.Type {
	case config.TypeMongoDB:
		return mongo.New(cfg), nil
	default:
		return nil, model.Validationf("storage.type", "unknown storage type %q", cfg.Type)
	}
}
