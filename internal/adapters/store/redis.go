package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// RedisStore держит чекпоинты прогона в одном hash: поле — номер батча, значение — JSON контактов
type RedisStore struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

func NewRedisStore(ctx context.Context, cfg Config, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("redis store connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return &RedisStore{client: client, cfg: cfg, logger: logger}, nil
}

func runKey(runID string) string {
	return keyPrefix + ":run:" + runID
}

func (r *RedisStore) SaveBatch(ctx context.Context, runID string, batch int, deleted []domain.Contact) error {
	if runID == "" {
		return ErrEmptyRunID
	}
	data, err := json.Marshal(deleted)
	if err != nil {
		return fmt.Errorf("marshal batch %d: %w", batch, err)
	}

	key := runKey(runID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.Itoa(batch), data)
		if r.cfg.TTL > 0 {
			pipe.Expire(ctx, key, r.cfg.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s/%d: %w", key, batch, err)
	}
	r.logger.Debug("checkpoint saved", "key", key, "batch", batch, "deleted", len(deleted))
	return nil
}

func (r *RedisStore) Load(ctx context.Context, runID string) ([]domain.Contact, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	fields, err := r.client.HGetAll(ctx, runKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", runID, err)
	}

	batches := make([]int, 0, len(fields))
	for f := range fields {
		b, err := strconv.Atoi(f)
		if err != nil {
			r.logger.Warn("skip malformed checkpoint field", "run_id", runID, "field", f)
			continue
		}
		batches = append(batches, b)
	}
	sort.Ints(batches)

	var out []domain.Contact
	for _, b := range batches {
		var contacts []domain.Contact
		if err := json.Unmarshal([]byte(fields[strconv.Itoa(b)]), &contacts); err != nil {
			return nil, fmt.Errorf("unmarshal batch %d: %w", b, err)
		}
		out = append(out, contacts...)
	}
	return out, nil
}

func (r *RedisStore) Close(context.Context) error {
	return r.client.Close()
}
