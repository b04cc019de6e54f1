package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

const checkpointCollection = "probe_checkpoints"

type contactDoc struct {
	UserName   string `bson:"user_name"`
	NickName   string `bson:"nick_name"`
	RemarkName string `bson:"remark_name,omitempty"`
}

type checkpointDoc struct {
	RunID   string       `bson:"run_id"`
	Batch   int          `bson:"batch"`
	Deleted []contactDoc `bson:"deleted"`
	SavedAt time.Time    `bson:"saved_at"`
}

// MongoStore — документ на батч, уникальный по (run_id, batch)
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewMongoStore(ctx context.Context, cfg Config, logger *slog.Logger) (*MongoStore, error) {
	if cfg.MongoDatabase == "" {
		return nil, errors.New("mongo database name is empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI).SetAppName(keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("error occured while connecting to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("error occured while pinging mongo: %w", err)
	}

	collection := client.Database(cfg.MongoDatabase).Collection(checkpointCollection)
	_, err = collection.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "batch", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("checkpoints_run_batch_unique"),
	})
	if err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("error occured while creating mongo indexes: %w", err)
	}

	if cfg.TTL > 0 {
		_, err = collection.Indexes().CreateOne(connectCtx, mongo.IndexModel{
			Keys:    bson.D{{Key: "saved_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cfg.TTL.Seconds())).SetName("checkpoints_ttl"),
		})
		if err != nil {
			logger.Warn("mongo ttl index not created", "error", err)
		}
	}

	logger.Info("mongo store connected", "database", cfg.MongoDatabase)
	return &MongoStore{client: client, collection: collection, logger: logger}, nil
}

func (m *MongoStore) SaveBatch(ctx context.Context, runID string, batch int, deleted []domain.Contact) error {
	if runID == "" {
		return ErrEmptyRunID
	}

	doc := checkpointDoc{
		RunID:   runID,
		Batch:   batch,
		Deleted: make([]contactDoc, len(deleted)),
		SavedAt: time.Now(),
	}
	for i, c := range deleted {
		doc.Deleted[i] = contactDoc{UserName: c.UserName, NickName: c.NickName, RemarkName: c.RemarkName}
	}

	filter := bson.D{{Key: "run_id", Value: runID}, {Key: "batch", Value: batch}}
	result, err := m.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("unique key conflicts: %w", err)
		}
		return fmt.Errorf("database operation failed: %w", err)
	}

	m.logger.Debug("checkpoint saved",
		"run_id", runID,
		"batch", batch,
		"matched", result.MatchedCount,
		"upserted", result.UpsertedID != nil,
	)
	return nil
}

func (m *MongoStore) Load(ctx context.Context, runID string) ([]domain.Contact, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}

	cursor, err := m.collection.Find(ctx,
		bson.D{{Key: "run_id", Value: runID}},
		options.Find().SetSort(bson.D{{Key: "batch", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("database operation failed: %w", err)
	}

	var docs []checkpointDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode checkpoints: %w", err)
	}

	var out []domain.Contact
	for _, d := range docs {
		for _, c := range d.Deleted {
			out = append(out, domain.Contact{UserName: c.UserName, NickName: c.NickName, RemarkName: c.RemarkName})
		}
	}
	return out, nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
