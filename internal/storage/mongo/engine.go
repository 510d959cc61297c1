// Package mongo implements the storage engine contract on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"stratum/internal/storage/config"
	"stratum/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Engine holds the single live connection reused across all calls. Connect
// must complete before any other operation; until then every call fails with
// model.ErrNotConnected.
type Engine struct {
	cfg config.Config

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

// New builds an unconnected engine.
func New(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Connect establishes and verifies the connection. Calling Connect on an
// already connected engine is an error; the connection is owned by the engine
// and established exactly once.
func (e *Engine) Connect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db != nil {
		return fmt.Errorf("storage: already connected")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(e.cfg.URI()))
	if err != nil {
		return &model.BackendError{Op: "connect", Err: model.WrapError(err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("%w: ping %s:%d: %v", model.ErrNotConnected, e.cfg.Host, e.cfg.Port, err)
	}

	e.client = client
	e.db = client.Database(e.cfg.Database)

	slog.Info("Storage connected",
		"type", config.TypeMongoDB,
		"host", e.cfg.Host,
		"port", e.cfg.Port,
		"database", e.cfg.Database,
	)
	return nil
}

// Close disconnects. Safe to call on a never-connected or already closed
// engine.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Disconnect(ctx)
	e.client = nil
	e.db = nil
	return err
}

// collection returns the handle for name, failing fast when Connect has not
// completed.
func (e *Engine) collection(name string) (*mongo.Collection, error) {
	e.mu.Lock()
	db := e.db
	e.mu.Unlock()

	if db == nil {
		return nil, model.ErrNotConnected
	}
	return db.Collection(name), nil
}

// database returns the database handle with the same fail-fast guard.
func (e *Engine) database() (*mongo.Database, error) {
	e.mu.Lock()
	db := e.db
	e.mu.Unlock()

	if db == nil {
		return nil, model.ErrNotConnected
	}
	return db, nil
}
