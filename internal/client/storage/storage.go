// Package storage opens the durable key/value backend selected by config.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/petalert/internal/client/config"
	"github.com/dmitrijs2005/petalert/internal/client/migrations"
	"github.com/dmitrijs2005/petalert/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petalert/internal/common"
	"github.com/dmitrijs2005/petalert/internal/filex"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Store is an open metadata backend. Close releases the underlying
// connection.
type Store struct {
	Metadata metadata.Repository
	closer   io.Closer
}

func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Open builds the backend named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		if err := filex.EnsureParentDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("open sqlite store %q: %w", cfg.Path, err)
		}
		db, err := InitDatabase(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %q: %w", cfg.Path, err)
		}
		return &Store{Metadata: metadata.NewSQLiteRepository(db), closer: db}, nil

	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("open redis store %q: %w", cfg.RedisAddr, err)
		}
		return &Store{Metadata: metadata.NewRedisRepository(rdb, cfg.RedisPrefix), closer: rdb}, nil

	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownStorageBackend, cfg.Backend)
	}
}
