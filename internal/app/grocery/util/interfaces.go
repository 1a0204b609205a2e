package util

import (
	"context"

	"greenbasket/internal/app/grocery/entity"
)

// LocalStore интерфейс локального зеркального хранилища
// Используется для dependency injection и упрощения тестирования
type LocalStore interface {
	ReadCategories(ctx context.Context) ([]entity.Category, error)
	WriteCategories(ctx context.Context, categories []entity.Category) error
	ReadItems(ctx context.Context) ([]entity.Item, error)
	WriteItems(ctx context.Context, items []entity.Item) error
	Close() error
}
