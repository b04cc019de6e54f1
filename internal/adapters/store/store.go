package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/larriantoniy/wx_isfriend/internal/ports"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	keyPrefix = "isfriend"
)

var (
	ErrEmptyRunID   = errors.New("store: run id is empty")
	ErrUnknownStore = errors.New("store: unknown driver")
)

type Config struct {
	Driver string
	TTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string

	PostgresDSN string
}

// Open создаёт хранилище чекпоинтов по cfg.Driver
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (ports.ReportStore, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return NewRedisStore(ctx, cfg, logger)
	case DriverMongo:
		return NewMongoStore(ctx, cfg, logger)
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Driver)
	}
}
