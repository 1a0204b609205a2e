package repository

import (
	"context"
	"fmt"
	"time"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commandRepository struct {
	collection *mongo.Collection
}

// NewCommandRepository создает новый репозиторий истории голосовых команд
// Автоматически создает индекс по created_at для выборки последних команд
func NewCommandRepository(db *mongo.Database) CommandRepository {
	collection := db.Collection("commands")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("created_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		logger.Warn().Err(err).Msg("failed to create index on created_at")
	}

	return &commandRepository{
		collection: collection,
	}
}

// Create сохраняет запись об обработанной голосовой команде
func (r *commandRepository) Create(ctx context.Context, record *entity.CommandRecord) error {
	record.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create command record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}

	return nil
}

// GetRecent получает последние обработанные команды
func (r *commandRepository) GetRecent(ctx context.Context, limit int) ([]entity.CommandRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find command records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []entity.CommandRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode command records: %w", err)
	}

	return records, nil
}
