package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

const createCheckpointsTable = `
CREATE TABLE IF NOT EXISTS probe_checkpoints (
	run_id   TEXT        NOT NULL,
	batch    INTEGER     NOT NULL,
	deleted  JSONB       NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (run_id, batch)
)`

// PostgresStore — строка на батч в probe_checkpoints
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresStore(ctx context.Context, cfg Config, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createCheckpointsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}
	logger.Info("postgres store connected")
	return &PostgresStore{db: db, logger: logger}, nil
}

func (p *PostgresStore) SaveBatch(ctx context.Context, runID string, batch int, deleted []domain.Contact) error {
	if runID == "" {
		return ErrEmptyRunID
	}
	if deleted == nil {
		deleted = []domain.Contact{}
	}
	data, err := json.Marshal(deleted)
	if err != nil {
		return fmt.Errorf("marshal batch %d: %w", batch, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO probe_checkpoints (run_id, batch, deleted)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, batch) DO UPDATE
		SET deleted = $3, saved_at = NOW()
	`, runID, batch, string(data))
	if err != nil {
		return fmt.Errorf("save checkpoint %s/%d: %w", runID, batch, err)
	}
	p.logger.Debug("checkpoint saved", "run_id", runID, "batch", batch, "deleted", len(deleted))
	return nil
}

func (p *PostgresStore) Load(ctx context.Context, runID string) ([]domain.Contact, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT deleted
		FROM probe_checkpoints
		WHERE run_id = $1
		ORDER BY batch
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoints %s: %w", runID, err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var contacts []domain.Contact
		if err := json.Unmarshal(data, &contacts); err != nil {
			return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
		}
		out = append(out, contacts...)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Close(context.Context) error {
	return p.db.Close()
}
