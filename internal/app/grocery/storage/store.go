package storage

import (
	"context"

	"greenbasket/internal/app/grocery/entity"

	"github.com/google/uuid"
)

// DefaultQuantity - количество, с которым товар попадает в список
const DefaultQuantity = 1

// Outcome описывает исход операции хранилища: через какое хранилище
// операция реально прошла
type Outcome int

const (
	// OutcomeFailed - ни основное хранилище, ни зеркало не приняли операцию
	OutcomeFailed Outcome = iota
	// OutcomePrimary - операция выполнена основным хранилищем (PostgreSQL)
	OutcomePrimary
	// OutcomeFallback - основное хранилище недоступно, сработало локальное зеркало
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomePrimary:
		return "primary"
	case OutcomeFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// OK сообщает, что данные сохранены хоть в каком-то хранилище
func (o Outcome) OK() bool {
	return o == OutcomePrimary || o == OutcomeFallback
}

// Degraded сообщает, что операция прошла через зеркало и
// основное хранилище её ещё не видело
func (o Outcome) Degraded() bool {
	return o == OutcomeFallback
}

// Store - единая точка доступа к данным списка покупок
// Сначала пробует основное хранилище, при его недоступности
// переключается на локальное зеркало
type Store interface {
	FetchCategories(ctx context.Context) ([]entity.Category, Outcome, error)
	AddCategory(ctx context.Context, name, imageURL string) (*entity.Category, Outcome, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (Outcome, error)

	FetchItems(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, Outcome, error)
	AddItem(ctx context.Context, categoryID uuid.UUID, name string) (*entity.Item, Outcome, error)
	UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (Outcome, error)
	DeleteItem(ctx context.Context, id uuid.UUID) (Outcome, error)

	FindCategoryByName(ctx context.Context, name string) (*entity.Category, error)
	FindItemByName(ctx context.Context, name string) (*entity.Item, error)

	UploadImage(ctx context.Context, filename string, data []byte) (string, Outcome, error)

	SyncMirror(ctx context.Context) error
}
