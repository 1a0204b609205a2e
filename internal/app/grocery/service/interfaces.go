package service

import (
	"context"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/interpreter"

	"github.com/google/uuid"
)

// GroceryService - операции над списком покупок для HTTP-слоя.
// Второе возвращаемое значение degraded сообщает, что данные прошли
// через локальное зеркало, а не через основное хранилище
type GroceryService interface {
	GetCategories(ctx context.Context) ([]entity.Category, bool, error)
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, bool, error)
	RemoveCategory(ctx context.Context, id uuid.UUID) (bool, error)

	GetItems(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, bool, error)
	AddItem(ctx context.Context, categoryID uuid.UUID, name string) (*entity.Item, bool, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	RemoveItem(ctx context.Context, id uuid.UUID) (bool, error)

	HandleVoiceCommand(ctx context.Context, text string) (*interpreter.Result, error)
	CommandHistory(ctx context.Context, limit int) ([]entity.CommandRecord, error)

	UploadImage(ctx context.Context, filename string, data []byte) (string, bool, error)

	Snapshot() Snapshot
}
