package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/repository/mocks"
	"greenbasket/internal/app/grocery/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errConnRefused = errors.New("connection refused")

type storeEnv struct {
	categories *mocks.MockCategoryRepository
	items      *mocks.MockItemRepository
	local      *mocks.MockLocalStore
	media      *mocks.MockMediaClient
	publisher  *mocks.MockMessagePublisher
	store      storage.Store
}

func newStoreEnv() *storeEnv {
	env := &storeEnv{
		categories: new(mocks.MockCategoryRepository),
		items:      new(mocks.MockItemRepository),
		local:      new(mocks.MockLocalStore),
		media:      new(mocks.MockMediaClient),
		publisher:  new(mocks.MockMessagePublisher),
	}
	env.store = storage.NewResilientStore(env.categories, env.items, env.local, env.media, env.publisher)
	return env
}

func newCategory(name string) entity.Category {
	return entity.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func newItem(categoryID uuid.UUID, name string, quantity int) entity.Item {
	return entity.Item{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
	}
}

// ==================== FetchCategories ====================

func TestFetchCategories_Primary_UpdatesMirror(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	categories := []entity.Category{newCategory("dairy"), newCategory("bakery")}
	env.categories.On("GetAll", ctx).Return(categories, nil)
	env.local.On("WriteCategories", ctx, categories).Return(nil)

	got, outcome, err := env.store.FetchCategories(ctx)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	assert.False(t, outcome.Degraded())
	assert.Equal(t, categories, got)
	env.local.AssertExpectations(t)
}

func TestFetchCategories_PrimaryDown_ReadsMirror(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	mirrored := []entity.Category{newCategory("dairy")}
	env.categories.On("GetAll", ctx).Return(nil, errConnRefused)
	env.local.On("ReadCategories", ctx).Return(mirrored, nil)

	got, outcome, err := env.store.FetchCategories(ctx)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	assert.True(t, outcome.Degraded())
	assert.Equal(t, mirrored, got)
}

func TestFetchCategories_BothDown_Fails(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	env.categories.On("GetAll", ctx).Return(nil, errConnRefused)
	env.local.On("ReadCategories", ctx).Return(nil, errors.New("redis down"))

	_, outcome, err := env.store.FetchCategories(ctx)

	require.Error(t, err)
	assert.Equal(t, storage.OutcomeFailed, outcome)
	assert.False(t, outcome.OK())
}

// ==================== AddCategory ====================

func TestAddCategory_Primary_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	env.categories.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	env.categories.On("GetAll", ctx).Return([]entity.Category{}, nil)
	env.local.On("WriteCategories", ctx, mock.Anything).Return(nil)
	env.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	category, outcome, err := env.store.AddCategory(ctx, "dairy", "http://img/dairy.png")

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	assert.Equal(t, "dairy", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)
	assert.False(t, category.CreatedAt.IsZero())
	env.publisher.AssertExpectations(t)
}

func TestAddCategory_PrimaryDown_AppendsToMirror(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	existing := []entity.Category{newCategory("bakery")}
	env.categories.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(errConnRefused)
	env.local.On("ReadCategories", ctx).Return(existing, nil)
	env.local.On("WriteCategories", ctx, mock.MatchedBy(func(cats []entity.Category) bool {
		return len(cats) == 2 && cats[1].Name == "dairy"
	})).Return(nil)

	category, outcome, err := env.store.AddCategory(ctx, "dairy", "")

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	assert.Equal(t, "dairy", category.Name)
	// События не публикуются при записи в зеркало
	env.publisher.AssertNotCalled(t, "PublishMessage")
}

func TestAddCategory_BothDown_Fails(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	env.categories.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(errConnRefused)
	env.local.On("ReadCategories", ctx).Return(nil, errors.New("redis down"))

	_, outcome, err := env.store.AddCategory(ctx, "dairy", "")

	require.Error(t, err)
	assert.Equal(t, storage.OutcomeFailed, outcome)
}

// ==================== DeleteCategory ====================

func TestDeleteCategory_Primary_RemovesItemsFirst(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	id := uuid.New()
	env.items.On("DeleteByCategory", ctx, id).Return(nil)
	env.categories.On("Delete", ctx, id).Return(nil)
	env.categories.On("GetAll", ctx).Return([]entity.Category{}, nil)
	env.items.On("GetAll", ctx).Return([]entity.Item{}, nil)
	env.local.On("WriteCategories", ctx, mock.Anything).Return(nil)
	env.local.On("WriteItems", ctx, mock.Anything).Return(nil)
	env.publisher.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	outcome, err := env.store.DeleteCategory(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	env.items.AssertCalled(t, "DeleteByCategory", ctx, id)
}

// Отсутствие категории не считается сбоем и не уводит в зеркало
func TestDeleteCategory_NotFound_NoFallback(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	id := uuid.New()
	env.items.On("DeleteByCategory", ctx, id).Return(nil)
	env.categories.On("Delete", ctx, id).Return(repository.ErrCategoryNotFound)

	outcome, err := env.store.DeleteCategory(ctx, id)

	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	env.local.AssertNotCalled(t, "ReadCategories")
}

func TestDeleteCategory_PrimaryDown_FiltersMirror(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	target := newCategory("dairy")
	other := newCategory("bakery")
	targetItem := newItem(target.ID, "milk", 1)
	otherItem := newItem(other.ID, "bread", 1)

	env.items.On("DeleteByCategory", ctx, target.ID).Return(errConnRefused)
	env.local.On("ReadCategories", ctx).Return([]entity.Category{target, other}, nil)
	env.local.On("WriteCategories", ctx, []entity.Category{other}).Return(nil)
	env.local.On("ReadItems", ctx).Return([]entity.Item{targetItem, otherItem}, nil)
	env.local.On("WriteItems", ctx, []entity.Item{otherItem}).Return(nil)

	outcome, err := env.store.DeleteCategory(ctx, target.ID)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	env.local.AssertExpectations(t)
}

// ==================== FetchItems / AddItem ====================

func TestFetchItems_PrimaryDown_FiltersMirrorByCategory(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	categoryID := uuid.New()
	mine := newItem(categoryID, "milk", 1)
	foreign := newItem(uuid.New(), "bread", 2)

	env.items.On("GetByCategory", ctx, categoryID).Return(nil, errConnRefused)
	env.local.On("ReadItems", ctx).Return([]entity.Item{foreign, mine}, nil)

	items, outcome, err := env.store.FetchItems(ctx, categoryID)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
}

func TestAddItem_DefaultQuantity(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	categoryID := uuid.New()
	env.items.On("Create", ctx, mock.MatchedBy(func(item *entity.Item) bool {
		return item.Quantity == storage.DefaultQuantity && item.Name == "milk"
	})).Return(nil)
	env.items.On("GetAll", ctx).Return([]entity.Item{}, nil)
	env.local.On("WriteItems", ctx, mock.Anything).Return(nil)
	env.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	item, outcome, err := env.store.AddItem(ctx, categoryID, "milk")

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, categoryID, item.CategoryID)
}

// ==================== UpdateItemQuantity ====================

func TestUpdateItemQuantity_ClampsNegativeToZero(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	id := uuid.New()
	env.items.On("UpdateQuantity", ctx, id, 0).Return(nil)
	env.items.On("GetAll", ctx).Return([]entity.Item{}, nil)
	env.local.On("WriteItems", ctx, mock.Anything).Return(nil)
	env.publisher.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	outcome, err := env.store.UpdateItemQuantity(ctx, id, -97)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	env.items.AssertCalled(t, "UpdateQuantity", ctx, id, 0)
}

func TestUpdateItemQuantity_PrimaryDown_UpdatesMirror(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	item := newItem(uuid.New(), "apples", 3)
	env.items.On("UpdateQuantity", ctx, item.ID, 5).Return(errConnRefused)
	env.local.On("ReadItems", ctx).Return([]entity.Item{item}, nil)
	env.local.On("WriteItems", ctx, mock.MatchedBy(func(items []entity.Item) bool {
		return len(items) == 1 && items[0].Quantity == 5
	})).Return(nil)

	outcome, err := env.store.UpdateItemQuantity(ctx, item.ID, 5)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	env.local.AssertExpectations(t)
}

func TestUpdateItemQuantity_MirrorMiss_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	id := uuid.New()
	env.items.On("UpdateQuantity", ctx, id, 2).Return(errConnRefused)
	env.local.On("ReadItems", ctx).Return([]entity.Item{}, nil)

	outcome, err := env.store.UpdateItemQuantity(ctx, id, 2)

	assert.ErrorIs(t, err, repository.ErrItemNotFound)
	assert.Equal(t, storage.OutcomeFallback, outcome)
}

// ==================== FindItemByName ====================

// При нескольких совпадениях в зеркале берётся самый ранний по created_at
func TestFindItemByName_MirrorPicksEarliest(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	older := newItem(uuid.New(), "Milk", 1)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newItem(uuid.New(), "milk", 2)

	env.items.On("GetByName", ctx, "MILK").Return(nil, errConnRefused)
	env.local.On("ReadItems", ctx).Return([]entity.Item{newer, older}, nil)

	found, err := env.store.FindItemByName(ctx, "MILK")

	require.NoError(t, err)
	assert.Equal(t, older.ID, found.ID)
}

func TestFindCategoryByName_NotFoundPassesThrough(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	env.categories.On("GetByName", ctx, "dairy").Return(nil, repository.ErrCategoryNotFound)

	_, err := env.store.FindCategoryByName(ctx, "dairy")

	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	env.local.AssertNotCalled(t, "ReadCategories")
}

// ==================== UploadImage ====================

func TestUploadImage_RemoteDown_TransientRef(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	env.media.On("Upload", ctx, "dairy.png", data).Return("", errors.New("media api down"))

	url, outcome, err := env.store.UploadImage(ctx, "dairy.png", data)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeFallback, outcome)
	assert.Equal(t, "mem://dairy.png", url)
}

func TestUploadImage_Remote_ReturnsURL(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	data := []byte("img")
	env.media.On("Upload", ctx, "dairy.png", data).Return("http://media/grocery-images/dairy.png", nil)

	url, outcome, err := env.store.UploadImage(ctx, "dairy.png", data)

	require.NoError(t, err)
	assert.Equal(t, storage.OutcomePrimary, outcome)
	assert.Equal(t, "http://media/grocery-images/dairy.png", url)
}

// ==================== SyncMirror ====================

func TestSyncMirror_RewritesBothBlobs(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	categories := []entity.Category{newCategory("dairy")}
	items := []entity.Item{newItem(categories[0].ID, "milk", 1)}

	env.categories.On("GetAll", ctx).Return(categories, nil)
	env.items.On("GetAll", ctx).Return(items, nil)
	env.local.On("WriteCategories", ctx, categories).Return(nil)
	env.local.On("WriteItems", ctx, items).Return(nil)

	err := env.store.SyncMirror(ctx)

	require.NoError(t, err)
	env.local.AssertExpectations(t)
}

func TestSyncMirror_PrimaryDown_Fails(t *testing.T) {
	ctx := context.Background()
	env := newStoreEnv()

	env.categories.On("GetAll", ctx).Return(nil, errConnRefused)

	err := env.store.SyncMirror(ctx)

	require.Error(t, err)
	env.local.AssertNotCalled(t, "WriteCategories")
}
