package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/infrastructure"
	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/util"
	"greenbasket/pkg/logger"
	"greenbasket/pkg/metrics"

	"github.com/google/uuid"
)

// Типы событий изменения списка покупок
const (
	EventCategoryCreated     = "CATEGORY_CREATED"
	EventCategoryDeleted     = "CATEGORY_DELETED"
	EventItemAdded           = "ITEM_ADDED"
	EventItemQuantityChanged = "ITEM_QUANTITY_CHANGED"
	EventItemDeleted         = "ITEM_DELETED"
)

// resilientStore реализует Store поверх PostgreSQL с локальным
// Redis-зеркалом в качестве запасного хранилища
//
// Схема работы: каждая операция сначала идёт в основное хранилище.
// При успехе зеркало обновляется свежими данными, при сбое соединения
// операция выполняется над зеркалом и помечается как fallback.
// Ошибки "не найдено" не считаются сбоем основного хранилища
// и в зеркало не уводят
type resilientStore struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	local      util.LocalStore
	media      infrastructure.MediaClient
	publisher  infrastructure.MessagePublisher

	mu        sync.RWMutex
	memImages map[string][]byte
}

func NewResilientStore(
	categories repository.CategoryRepository,
	items repository.ItemRepository,
	local util.LocalStore,
	media infrastructure.MediaClient,
	publisher infrastructure.MessagePublisher,
) Store {
	return &resilientStore{
		categories: categories,
		items:      items,
		local:      local,
		media:      media,
		publisher:  publisher,
		memImages:  make(map[string][]byte),
	}
}

// FetchCategories возвращает категории в порядке создания
func (s *resilientStore) FetchCategories(ctx context.Context) ([]entity.Category, Outcome, error) {
	categories, err := s.categories.GetAll(ctx)
	if err == nil {
		s.writeCategoriesMirror(ctx, categories)
		metrics.RecordStoreOperation("fetch_categories", OutcomePrimary.String())
		return categories, OutcomePrimary, nil
	}

	logger.Warn().Err(err).Msg("Primary store unavailable, reading categories from mirror")

	mirrored, mirrorErr := s.local.ReadCategories(ctx)
	if mirrorErr != nil {
		metrics.RecordStoreOperation("fetch_categories", OutcomeFailed.String())
		return nil, OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("fetch_categories", OutcomeFallback.String())
	return mirrored, OutcomeFallback, nil
}

// AddCategory создает категорию. ID и метка времени присваиваются здесь,
// поэтому запись одинаково выглядит и в основном хранилище, и в зеркале
func (s *resilientStore) AddCategory(ctx context.Context, name, imageURL string) (*entity.Category, Outcome, error) {
	category := &entity.Category{
		ID:        uuid.New(),
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}

	err := s.categories.Create(ctx, category)
	if err == nil {
		s.refreshCategoriesMirror(ctx)
		s.publishEvent(ctx, entity.GroceryEvent{
			EventType: EventCategoryCreated,
			EntityID:  category.ID,
			Name:      category.Name,
			Timestamp: time.Now(),
		})
		metrics.RecordStoreOperation("add_category", OutcomePrimary.String())
		return category, OutcomePrimary, nil
	}

	logger.Warn().Err(err).Str("name", name).Msg("Primary store unavailable, adding category to mirror")

	mirrored, mirrorErr := s.local.ReadCategories(ctx)
	if mirrorErr == nil {
		mirrorErr = s.local.WriteCategories(ctx, append(mirrored, *category))
	}
	if mirrorErr != nil {
		metrics.RecordStoreOperation("add_category", OutcomeFailed.String())
		return nil, OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("add_category", OutcomeFallback.String())
	return category, OutcomeFallback, nil
}

// DeleteCategory удаляет категорию вместе с её товарами.
// Отсутствие категории не уводит операцию в зеркало: хранилище
// ответило, просто записи нет
func (s *resilientStore) DeleteCategory(ctx context.Context, id uuid.UUID) (Outcome, error) {
	err := s.deleteCategoryPrimary(ctx, id)
	if err == nil {
		s.refreshCategoriesMirror(ctx)
		s.refreshItemsMirror(ctx)
		s.publishEvent(ctx, entity.GroceryEvent{
			EventType: EventCategoryDeleted,
			EntityID:  id,
			Timestamp: time.Now(),
		})
		metrics.RecordStoreOperation("delete_category", OutcomePrimary.String())
		return OutcomePrimary, nil
	}
	if errors.Is(err, repository.ErrCategoryNotFound) {
		metrics.RecordStoreOperation("delete_category", OutcomePrimary.String())
		return OutcomePrimary, err
	}

	logger.Warn().Err(err).Str("category_id", id.String()).Msg("Primary store unavailable, deleting category from mirror")

	mirrorErr := s.deleteCategoryMirror(ctx, id)
	if mirrorErr != nil {
		if errors.Is(mirrorErr, repository.ErrCategoryNotFound) {
			metrics.RecordStoreOperation("delete_category", OutcomeFallback.String())
			return OutcomeFallback, mirrorErr
		}
		metrics.RecordStoreOperation("delete_category", OutcomeFailed.String())
		return OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("delete_category", OutcomeFallback.String())
	return OutcomeFallback, nil
}

func (s *resilientStore) deleteCategoryPrimary(ctx context.Context, id uuid.UUID) error {
	if err := s.items.DeleteByCategory(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

func (s *resilientStore) deleteCategoryMirror(ctx context.Context, id uuid.UUID) error {
	mirrored, err := s.local.ReadCategories(ctx)
	if err != nil {
		return err
	}

	kept := make([]entity.Category, 0, len(mirrored))
	for _, c := range mirrored {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(mirrored) {
		return repository.ErrCategoryNotFound
	}
	if err := s.local.WriteCategories(ctx, kept); err != nil {
		return err
	}

	items, err := s.local.ReadItems(ctx)
	if err != nil {
		return err
	}
	keptItems := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if it.CategoryID != id {
			keptItems = append(keptItems, it)
		}
	}
	return s.local.WriteItems(ctx, keptItems)
}

// FetchItems возвращает товары категории в порядке создания
func (s *resilientStore) FetchItems(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, Outcome, error) {
	items, err := s.items.GetByCategory(ctx, categoryID)
	if err == nil {
		s.refreshItemsMirror(ctx)
		metrics.RecordStoreOperation("fetch_items", OutcomePrimary.String())
		return items, OutcomePrimary, nil
	}

	logger.Warn().Err(err).Str("category_id", categoryID.String()).Msg("Primary store unavailable, reading items from mirror")

	mirrored, mirrorErr := s.local.ReadItems(ctx)
	if mirrorErr != nil {
		metrics.RecordStoreOperation("fetch_items", OutcomeFailed.String())
		return nil, OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	filtered := make([]entity.Item, 0)
	for _, it := range mirrored {
		if it.CategoryID == categoryID {
			filtered = append(filtered, it)
		}
	}

	metrics.RecordStoreOperation("fetch_items", OutcomeFallback.String())
	return filtered, OutcomeFallback, nil
}

// AddItem добавляет товар в категорию с количеством по умолчанию
func (s *resilientStore) AddItem(ctx context.Context, categoryID uuid.UUID, name string) (*entity.Item, Outcome, error) {
	item := &entity.Item{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Quantity:   DefaultQuantity,
		CreatedAt:  time.Now(),
	}

	err := s.items.Create(ctx, item)
	if err == nil {
		s.refreshItemsMirror(ctx)
		s.publishEvent(ctx, entity.GroceryEvent{
			EventType:  EventItemAdded,
			EntityID:   item.ID,
			CategoryID: categoryID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Timestamp:  time.Now(),
		})
		metrics.RecordStoreOperation("add_item", OutcomePrimary.String())
		return item, OutcomePrimary, nil
	}

	logger.Warn().Err(err).Str("name", name).Msg("Primary store unavailable, adding item to mirror")

	mirrored, mirrorErr := s.local.ReadItems(ctx)
	if mirrorErr == nil {
		mirrorErr = s.local.WriteItems(ctx, append(mirrored, *item))
	}
	if mirrorErr != nil {
		metrics.RecordStoreOperation("add_item", OutcomeFailed.String())
		return nil, OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("add_item", OutcomeFallback.String())
	return item, OutcomeFallback, nil
}

// UpdateItemQuantity выставляет товару новое количество.
// Отрицательные значения прижимаются к нулю
func (s *resilientStore) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (Outcome, error) {
	if quantity < 0 {
		quantity = 0
	}

	err := s.items.UpdateQuantity(ctx, id, quantity)
	if err == nil {
		s.refreshItemsMirror(ctx)
		s.publishEvent(ctx, entity.GroceryEvent{
			EventType: EventItemQuantityChanged,
			EntityID:  id,
			Quantity:  quantity,
			Timestamp: time.Now(),
		})
		metrics.RecordStoreOperation("update_quantity", OutcomePrimary.String())
		return OutcomePrimary, nil
	}
	if errors.Is(err, repository.ErrItemNotFound) {
		metrics.RecordStoreOperation("update_quantity", OutcomePrimary.String())
		return OutcomePrimary, err
	}

	logger.Warn().Err(err).Str("item_id", id.String()).Msg("Primary store unavailable, updating quantity in mirror")

	mirrorErr := s.updateQuantityMirror(ctx, id, quantity)
	if mirrorErr != nil {
		if errors.Is(mirrorErr, repository.ErrItemNotFound) {
			metrics.RecordStoreOperation("update_quantity", OutcomeFallback.String())
			return OutcomeFallback, mirrorErr
		}
		metrics.RecordStoreOperation("update_quantity", OutcomeFailed.String())
		return OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("update_quantity", OutcomeFallback.String())
	return OutcomeFallback, nil
}

func (s *resilientStore) updateQuantityMirror(ctx context.Context, id uuid.UUID, quantity int) error {
	mirrored, err := s.local.ReadItems(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range mirrored {
		if mirrored[i].ID == id {
			mirrored[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return repository.ErrItemNotFound
	}

	return s.local.WriteItems(ctx, mirrored)
}

// DeleteItem удаляет товар из списка
func (s *resilientStore) DeleteItem(ctx context.Context, id uuid.UUID) (Outcome, error) {
	err := s.items.Delete(ctx, id)
	if err == nil {
		s.refreshItemsMirror(ctx)
		s.publishEvent(ctx, entity.GroceryEvent{
			EventType: EventItemDeleted,
			EntityID:  id,
			Timestamp: time.Now(),
		})
		metrics.RecordStoreOperation("delete_item", OutcomePrimary.String())
		return OutcomePrimary, nil
	}
	if errors.Is(err, repository.ErrItemNotFound) {
		metrics.RecordStoreOperation("delete_item", OutcomePrimary.String())
		return OutcomePrimary, err
	}

	logger.Warn().Err(err).Str("item_id", id.String()).Msg("Primary store unavailable, deleting item from mirror")

	mirrorErr := s.deleteItemMirror(ctx, id)
	if mirrorErr != nil {
		if errors.Is(mirrorErr, repository.ErrItemNotFound) {
			metrics.RecordStoreOperation("delete_item", OutcomeFallback.String())
			return OutcomeFallback, mirrorErr
		}
		metrics.RecordStoreOperation("delete_item", OutcomeFailed.String())
		return OutcomeFailed, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	metrics.RecordStoreOperation("delete_item", OutcomeFallback.String())
	return OutcomeFallback, nil
}

func (s *resilientStore) deleteItemMirror(ctx context.Context, id uuid.UUID) error {
	mirrored, err := s.local.ReadItems(ctx)
	if err != nil {
		return err
	}

	kept := make([]entity.Item, 0, len(mirrored))
	for _, it := range mirrored {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(mirrored) {
		return repository.ErrItemNotFound
	}

	return s.local.WriteItems(ctx, kept)
}

// FindCategoryByName ищет категорию по имени без учёта регистра.
// При недоступности основного хранилища ищет в зеркале
func (s *resilientStore) FindCategoryByName(ctx context.Context, name string) (*entity.Category, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err == nil || errors.Is(err, repository.ErrCategoryNotFound) {
		return category, err
	}

	logger.Warn().Err(err).Str("name", name).Msg("Primary store unavailable, searching category in mirror")

	mirrored, mirrorErr := s.local.ReadCategories(ctx)
	if mirrorErr != nil {
		return nil, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}
	for i := range mirrored {
		if strings.EqualFold(mirrored[i].Name, name) {
			return &mirrored[i], nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

// FindItemByName ищет товар по имени без учёта регистра по всем категориям.
// При нескольких совпадениях берётся самый ранний по времени создания
func (s *resilientStore) FindItemByName(ctx context.Context, name string) (*entity.Item, error) {
	item, err := s.items.GetByName(ctx, name)
	if err == nil || errors.Is(err, repository.ErrItemNotFound) {
		return item, err
	}

	logger.Warn().Err(err).Str("name", name).Msg("Primary store unavailable, searching item in mirror")

	mirrored, mirrorErr := s.local.ReadItems(ctx)
	if mirrorErr != nil {
		return nil, fmt.Errorf("primary store failed: %v, mirror failed: %w", err, mirrorErr)
	}

	var found *entity.Item
	for i := range mirrored {
		if !strings.EqualFold(mirrored[i].Name, name) {
			continue
		}
		if found == nil || mirrored[i].CreatedAt.Before(found.CreatedAt) {
			found = &mirrored[i]
		}
	}
	if found == nil {
		return nil, repository.ErrItemNotFound
	}
	return found, nil
}

// UploadImage загружает изображение во внешнее хранилище.
// При его недоступности данные остаются в памяти процесса, а наружу
// уходит временная ссылка mem://, живущая до перезапуска сервиса
func (s *resilientStore) UploadImage(ctx context.Context, filename string, data []byte) (string, Outcome, error) {
	url, err := s.media.Upload(ctx, filename, data)
	if err == nil {
		metrics.ImagesUploaded.WithLabelValues(OutcomePrimary.String()).Inc()
		return url, OutcomePrimary, nil
	}

	logger.Warn().Err(err).Str("filename", filename).Msg("Media store unavailable, keeping image in memory")

	ref := "mem://" + filename
	s.mu.Lock()
	s.memImages[ref] = data
	s.mu.Unlock()

	metrics.ImagesUploaded.WithLabelValues(OutcomeFallback.String()).Inc()
	return ref, OutcomeFallback, nil
}

// SyncMirror приводит зеркало в соответствие с основным хранилищем.
// Вызывается фоновым планировщиком
func (s *resilientStore) SyncMirror(ctx context.Context) error {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch categories for mirror sync: %w", err)
	}
	if err := s.local.WriteCategories(ctx, categories); err != nil {
		return fmt.Errorf("failed to write categories mirror: %w", err)
	}

	items, err := s.items.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch items for mirror sync: %w", err)
	}
	if err := s.local.WriteItems(ctx, items); err != nil {
		return fmt.Errorf("failed to write items mirror: %w", err)
	}

	return nil
}

// writeCategoriesMirror обновляет зеркало уже полученным списком
func (s *resilientStore) writeCategoriesMirror(ctx context.Context, categories []entity.Category) {
	if err := s.local.WriteCategories(ctx, categories); err != nil {
		logger.Error().Err(err).Msg("Failed to update categories mirror")
	}
}

// refreshCategoriesMirror перечитывает категории из основного хранилища в зеркало
func (s *resilientStore) refreshCategoriesMirror(ctx context.Context) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to refresh categories mirror")
		return
	}
	s.writeCategoriesMirror(ctx, categories)
}

// refreshItemsMirror перечитывает все товары из основного хранилища в зеркало
func (s *resilientStore) refreshItemsMirror(ctx context.Context) {
	items, err := s.items.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to refresh items mirror")
		return
	}
	if err := s.local.WriteItems(ctx, items); err != nil {
		logger.Error().Err(err).Msg("Failed to update items mirror")
	}
}

// publishEvent отправляет событие в Kafka. Сбой доставки не
// останавливает операцию
func (s *resilientStore) publishEvent(ctx context.Context, event entity.GroceryEvent) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.EntityID.String(), payload); err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to publish event")
	}
}
