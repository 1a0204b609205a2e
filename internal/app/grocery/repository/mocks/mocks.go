package mocks

import (
	"context"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemRepository мок для ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockItemRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockItemRepository) GetAll(ctx context.Context) ([]entity.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// MockCommandRepository мок для CommandRepository
type MockCommandRepository struct {
	mock.Mock
}

func (m *MockCommandRepository) Create(ctx context.Context, record *entity.CommandRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCommandRepository) GetRecent(ctx context.Context, limit int) ([]entity.CommandRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CommandRecord), args.Error(1)
}

// MockLocalStore мок для util.LocalStore
type MockLocalStore struct {
	mock.Mock
}

func (m *MockLocalStore) ReadCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockLocalStore) WriteCategories(ctx context.Context, categories []entity.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockLocalStore) ReadItems(ctx context.Context) ([]entity.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockLocalStore) WriteItems(ctx context.Context, items []entity.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockLocalStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMediaClient мок для infrastructure.MediaClient
type MockMediaClient struct {
	mock.Mock
}

func (m *MockMediaClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

// MockMessagePublisher мок для infrastructure.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStore мок для storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FetchCategories(ctx context.Context) ([]entity.Category, storage.Outcome, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.Outcome), args.Error(2)
	}
	return args.Get(0).([]entity.Category), args.Get(1).(storage.Outcome), args.Error(2)
}

func (m *MockStore) AddCategory(ctx context.Context, name, imageURL string) (*entity.Category, storage.Outcome, error) {
	args := m.Called(ctx, name, imageURL)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.Outcome), args.Error(2)
	}
	return args.Get(0).(*entity.Category), args.Get(1).(storage.Outcome), args.Error(2)
}

func (m *MockStore) DeleteCategory(ctx context.Context, id uuid.UUID) (storage.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.Outcome), args.Error(1)
}

func (m *MockStore) FetchItems(ctx context.Context, categoryID uuid.UUID) ([]entity.Item, storage.Outcome, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.Outcome), args.Error(2)
	}
	return args.Get(0).([]entity.Item), args.Get(1).(storage.Outcome), args.Error(2)
}

func (m *MockStore) AddItem(ctx context.Context, categoryID uuid.UUID, name string) (*entity.Item, storage.Outcome, error) {
	args := m.Called(ctx, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.Outcome), args.Error(2)
	}
	return args.Get(0).(*entity.Item), args.Get(1).(storage.Outcome), args.Error(2)
}

func (m *MockStore) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (storage.Outcome, error) {
	args := m.Called(ctx, id, quantity)
	return args.Get(0).(storage.Outcome), args.Error(1)
}

func (m *MockStore) DeleteItem(ctx context.Context, id uuid.UUID) (storage.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.Outcome), args.Error(1)
}

func (m *MockStore) FindCategoryByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockStore) FindItemByName(ctx context.Context, name string) (*entity.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockStore) UploadImage(ctx context.Context, filename string, data []byte) (string, storage.Outcome, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Get(1).(storage.Outcome), args.Error(2)
}

func (m *MockStore) SyncMirror(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
