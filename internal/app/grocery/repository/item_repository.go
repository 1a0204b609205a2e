package repository

import (
	"context"
	"errors"
	"fmt"

	"greenbasket/internal/app/grocery/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// itemRepository реализует ItemRepository для работы с PostgreSQL через GORM
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository создает новый репозиторий товаров
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create создает новый товар
func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create item: %w", result.Error)
	}
	return nil
}

// GetByName получает товар по имени без учета регистра
// Возвращает первое совпадение по всему набору товаров, без привязки к категории
func (r *itemRepository) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	var item entity.Item
	result := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("created_at ASC").
		First(&item)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by name: %w", result.Error)
	}

	return &item, nil
}

// GetByCategory получает товары категории в порядке создания
func (r *itemRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	result := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC").
		Find(&items)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get items by category: %w", result.Error)
	}

	return items, nil
}

// GetAll получает все товары в порядке создания
// Используется для зеркальной записи полной коллекции в fallback-кеш
func (r *itemRepository) GetAll(ctx context.Context) ([]entity.Item, error) {
	var items []entity.Item
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&items)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get items: %w", result.Error)
	}

	return items, nil
}

// UpdateQuantity устанавливает абсолютное значение количества
// Ограничение снизу нулем - ответственность вызывающей стороны
func (r *itemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Item{}).
		Where("id = ?", id).
		Update("quantity", quantity)

	if result.Error != nil {
		return fmt.Errorf("failed to update item quantity: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete удаляет товар по ID
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteByCategory удаляет все товары категории
// Вызывается перед удалением самой категории (каскад на уровне адаптера)
func (r *itemRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Item{}, "category_id = ?", categoryID)

	if result.Error != nil {
		return fmt.Errorf("failed to delete items by category: %w", result.Error)
	}

	return nil
}
