package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Ключи зеркальных коллекций
// Каждая коллекция хранится целиком одним JSON-блобом: запись всегда
// перезаписывает блоб полностью, частичных обновлений нет
const (
	categoriesMirrorKey = "grocery:categories"
	itemsMirrorKey      = "grocery:items"
)

// RedisClient - локальное зеркало коллекций категорий и товаров
// Используется как fallback-хранилище, когда PostgreSQL недоступен
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// ReadCategories читает зеркальную коллекцию категорий
// Отсутствие ключа - не ошибка: зеркало еще не наполнялось
func (r *RedisClient) ReadCategories(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewRedisTimer("grocery-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, categoriesMirrorKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		metrics.RecordRedisError("grocery-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to read categories mirror: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories mirror: %w", err)
	}

	return categories, nil
}

// WriteCategories перезаписывает зеркальную коллекцию категорий целиком
func (r *RedisClient) WriteCategories(ctx context.Context, categories []entity.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories mirror: %w", err)
	}

	timer := metrics.NewRedisTimer("grocery-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, categoriesMirrorKey, data, 0).Err(); err != nil {
		metrics.RecordRedisError("grocery-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to write categories mirror: %w", err)
	}

	return nil
}

// ReadItems читает зеркальную коллекцию товаров (все категории одним блобом)
func (r *RedisClient) ReadItems(ctx context.Context) ([]entity.Item, error) {
	timer := metrics.NewRedisTimer("grocery-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, itemsMirrorKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		metrics.RecordRedisError("grocery-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to read items mirror: %w", err)
	}

	var items []entity.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items mirror: %w", err)
	}

	return items, nil
}

// WriteItems перезаписывает зеркальную коллекцию товаров целиком
func (r *RedisClient) WriteItems(ctx context.Context, items []entity.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items mirror: %w", err)
	}

	timer := metrics.NewRedisTimer("grocery-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, itemsMirrorKey, data, 0).Err(); err != nil {
		metrics.RecordRedisError("grocery-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to write items mirror: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
