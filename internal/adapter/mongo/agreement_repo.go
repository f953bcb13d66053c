package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const agreementCollectionName = "agreements"

type agreementRepository struct {
	collection *mongo.Collection
}

func NewAgreementRepository(client *mongo.Client, database string) repository.AgreementRepository {
	return &agreementRepository{
		collection: client.Database(database).Collection(agreementCollectionName),
	}
}

// EnsureIndexes creates the session lookup index. Safe to call repeatedly.
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	coll := client.Database(database).Collection(agreementCollectionName)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "generated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create agreement indexes: %w", err)
	}
	return nil
}

func (r *agreementRepository) Create(ctx context.Context, record *entity.AgreementRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("agreement record %s: %w", record.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create agreement record: %w", err)
	}
	return nil
}

func (r *agreementRepository) ListBySession(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements for session %s: %w", sessionID, err)
	}
	defer cursor.Close(ctx)

	records := make([]*entity.AgreementRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode agreements for session %s: %w", sessionID, err)
	}
	return records, nil
}
