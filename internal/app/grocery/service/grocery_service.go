package service

import (
	"context"
	"sync"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/interpreter"
	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/storage"
	"greenbasket/pkg/logger"
	"greenbasket/pkg/metrics"

	"github.com/google/uuid"
)

// Snapshot - моментальный снимок состояния списка покупок,
// который сервис держит в памяти между запросами
type Snapshot struct {
	Categories        []entity.Category
	Items             map[uuid.UUID][]entity.Item
	LoadingCategories bool
	LoadingItems      bool
	Degraded          bool
}

type groceryService struct {
	store       storage.Store
	commands    repository.CommandRepository
	interpreter *interpreter.Interpreter

	mu                sync.RWMutex
	categories        []entity.Category
	items             map[uuid.UUID][]entity.Item
	loadingCategories bool
	loadingItems      bool
	degraded          bool
}

func NewGroceryService(store storage.Store, commands repository.CommandRepository) GroceryService {
	return &groceryService{
		store:       store,
		commands:    commands,
		interpreter: interpreter.NewInterpreter(store),
		items:       make(map[uuid.UUID][]entity.Item),
	}
}

// GetCategories загружает категории и обновляет снимок.
// Флаг загрузки снимается при любом исходе
func (s *groceryService) GetCategories(ctx context.Context) ([]entity.Category, bool, error) {
	s.mu.Lock()
	s.loadingCategories = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loadingCategories = false
		s.mu.Unlock()
	}()

	categories, outcome, err := s.store.FetchCategories(ctx)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.categories = categories
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return categories, outcome.Degraded(), nil
}

// CreateCategory создает категорию и дописывает её в снимок
func (s *groceryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, bool, error) {
	category, outcome, err := s.store.AddCategory(ctx, req.Name, req.ImageURL)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.categories = append(s.categories, *category)
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return category, outcome.Degraded(), nil
}

// RemoveCategory удаляет категорию, её товары и запись о них в снимке
func (s *groceryService) RemoveCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	outcome, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return outcome.Degraded(), err
	}

	s.mu.Lock()
	kept := make([]entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	delete(s.items, id)
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return outcome.Degraded(), nil
}

// GetItems загружает товары категории и обновляет снимок
func (s *groceryService) GetItems(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, bool, error) {
	s.mu.Lock()
	s.loadingItems = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loadingItems = false
		s.mu.Unlock()
	}()

	items, outcome, err := s.store.FetchItems(ctx, categoryID)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.items[categoryID] = items
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return items, outcome.Degraded(), nil
}

// AddItem добавляет товар. В снимок товар дописывается только если
// категория уже загружалась: иначе следующая загрузка всё равно
// принесёт полный список
func (s *groceryService) AddItem(ctx context.Context, categoryID uuid.UUID, name string) (*entity.Item, bool, error) {
	item, outcome, err := s.store.AddItem(ctx, categoryID, name)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if loaded, ok := s.items[categoryID]; ok {
		s.items[categoryID] = append(loaded, *item)
	}
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return item, outcome.Degraded(), nil
}

// UpdateQuantity выставляет товару новое количество
func (s *groceryService) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	outcome, err := s.store.UpdateItemQuantity(ctx, id, quantity)
	if err != nil {
		return outcome.Degraded(), err
	}

	s.mu.Lock()
	for categoryID, items := range s.items {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
				s.items[categoryID] = items
			}
		}
	}
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return outcome.Degraded(), nil
}

// RemoveItem удаляет товар из списка и из снимка
func (s *groceryService) RemoveItem(ctx context.Context, id uuid.UUID) (bool, error) {
	outcome, err := s.store.DeleteItem(ctx, id)
	if err != nil {
		return outcome.Degraded(), err
	}

	s.mu.Lock()
	for categoryID, items := range s.items {
		kept := make([]entity.Item, 0, len(items))
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		if len(kept) != len(items) {
			s.items[categoryID] = kept
		}
	}
	s.degraded = outcome.Degraded()
	s.mu.Unlock()

	return outcome.Degraded(), nil
}

// HandleVoiceCommand исполняет голосовую команду и после неё
// полностью пересинхронизирует снимок: команда могла изменить
// данные в любой категории
func (s *groceryService) HandleVoiceCommand(ctx context.Context, text string) (*interpreter.Result, error) {
	result, err := s.interpreter.Execute(ctx, text)
	if err != nil {
		metrics.RecordVoiceCommand(string(interpreter.IntentUnknown), false)
		return nil, err
	}

	metrics.RecordVoiceCommand(string(result.Intent), result.Success)
	s.recordCommand(ctx, text, result)

	if result.Success {
		s.resync(ctx)
	}

	return result, nil
}

// recordCommand пишет команду в историю. Недоступность истории
// не мешает ответить пользователю
func (s *groceryService) recordCommand(ctx context.Context, text string, result *interpreter.Result) {
	if s.commands == nil {
		return
	}

	record := &entity.CommandRecord{
		Text:    text,
		Intent:  string(result.Intent),
		Success: result.Success,
		Message: result.Message,
	}
	if err := s.commands.Create(ctx, record); err != nil {
		logger.Error().Err(err).Msg("Failed to record voice command")
	}
}

// resync перечитывает категории и все уже загруженные категории товаров
func (s *groceryService) resync(ctx context.Context) {
	categories, outcome, err := s.store.FetchCategories(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resync categories after voice command")
		return
	}

	s.mu.RLock()
	loaded := make([]uuid.UUID, 0, len(s.items))
	for categoryID := range s.items {
		loaded = append(loaded, categoryID)
	}
	s.mu.RUnlock()

	refreshed := make(map[uuid.UUID][]entity.Item, len(loaded))
	degraded := outcome.Degraded()
	for _, categoryID := range loaded {
		items, itemsOutcome, err := s.store.FetchItems(ctx, categoryID)
		if err != nil {
			logger.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to resync items after voice command")
			continue
		}
		refreshed[categoryID] = items
		degraded = degraded || itemsOutcome.Degraded()
	}

	s.mu.Lock()
	s.categories = categories
	for categoryID, items := range refreshed {
		s.items[categoryID] = items
	}
	s.degraded = degraded
	s.mu.Unlock()
}

// CommandHistory возвращает последние голосовые команды
func (s *groceryService) CommandHistory(ctx context.Context, limit int) ([]entity.CommandRecord, error) {
	return s.commands.GetRecent(ctx, limit)
}

// UploadImage загружает изображение категории
func (s *groceryService) UploadImage(ctx context.Context, filename string, data []byte) (string, bool, error) {
	url, outcome, err := s.store.UploadImage(ctx, filename, data)
	if err != nil {
		return "", false, err
	}
	return url, outcome.Degraded(), nil
}

// Snapshot возвращает копию текущего состояния
func (s *groceryService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]entity.Category, len(s.categories))
	copy(categories, s.categories)

	items := make(map[uuid.UUID][]entity.Item, len(s.items))
	for categoryID, list := range s.items {
		copied := make([]entity.Item, len(list))
		copy(copied, list)
		items[categoryID] = copied
	}

	return Snapshot{
		Categories:        categories,
		Items:             items,
		LoadingCategories: s.loadingCategories,
		LoadingItems:      s.loadingItems,
		Degraded:          s.degraded,
	}
}
