package repository

import (
	"context"
	"errors"

	"greenbasket/internal/app/grocery/entity"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
)

// CategoryRepository - операции над категориями в основном хранилище (PostgreSQL)
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository - операции над товарами в основном хранилище (PostgreSQL)
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByName(ctx context.Context, name string) (*entity.Item, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, error)
	GetAll(ctx context.Context) ([]entity.Item, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error
}

// CommandRepository - история голосовых команд в MongoDB
type CommandRepository interface {
	Create(ctx context.Context, record *entity.CommandRecord) error
	GetRecent(ctx context.Context, limit int) ([]entity.CommandRecord, error)
}
