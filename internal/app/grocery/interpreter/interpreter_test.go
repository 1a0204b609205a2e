package interpreter

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
	"github.com/stretchr/testify/require"
)

func newTestItem(name string, quantity int) *entity.Item {
	return &entity.Item{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       name,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
	}
}

func TestInterpreter_AddItem_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mocks.MockStore)

	category := &entity.Category{ID: uuid.New(), Name: "dairy"}
	item := &entity.Item{ID: uuid.New(), CategoryID: category.ID, Name: "milk", Quantity: 1}

	store.On("FindCategoryByName", ctx, "dairy").Return(category, nil)
	store.On("AddItem", ctx, category.ID, "milk").Return(item, storage.OutcomePrimary, nil)

	interp := NewInterpreter(store)

	// Act
	result, err := interp.Execute(ctx, "add milk to dairy")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, IntentAddItem, result.Intent)
	assert.Equal(t, "Added milk to dairy", result.Message)
	assert.Equal(t, storage.OutcomePrimary, result.Outcome)
	store.AssertExpectations(t)
}

func TestInterpreter_AddItem_CategoryNotFound(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	store.On("FindCategoryByName", ctx, "dairy").Return(nil, repository.ErrCategoryNotFound)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "add milk to dairy")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found")
	store.AssertNotCalled(t, "AddItem")
}

func TestInterpreter_CreateCategory_Success(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	category := &entity.Category{ID: uuid.New(), Name: "dairy"}
	store.On("AddCategory", ctx, "dairy", "").Return(category, storage.OutcomePrimary, nil)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "create category dairy")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, IntentCreateCategory, result.Intent)
	assert.Equal(t, "Created category dairy", result.Message)
	store.AssertExpectations(t)
}

func TestInterpreter_Increase_AddsToCurrentQuantity(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	item := newTestItem("apples", 3)
	store.On("FindItemByName", ctx, "apples").Return(item, nil)
	store.On("UpdateItemQuantity", ctx, item.ID, 5).Return(storage.OutcomePrimary, nil)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "increase apples by 2")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Increased apples to 5", result.Message)
	store.AssertExpectations(t)
}

func TestInterpreter_Decrease_DefaultsToOne(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	item := newTestItem("apples", 5)
	store.On("FindItemByName", ctx, "apples").Return(item, nil)
	store.On("UpdateItemQuantity", ctx, item.ID, 4).Return(storage.OutcomePrimary, nil)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "decrease apples")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Decreased apples to 4", result.Message)
	store.AssertExpectations(t)
}

// Уменьшение ниже нуля упирается в ноль, а не уходит в минус
func TestInterpreter_Decrease_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	item := newTestItem("apples", 3)
	store.On("FindItemByName", ctx, "apples").Return(item, nil)
	store.On("UpdateItemQuantity", ctx, item.ID, 0).Return(storage.OutcomePrimary, nil)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "decrease apples by 100")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Decreased apples to 0", result.Message)
	store.AssertExpectations(t)
}

func TestInterpreter_Increase_ItemNotFound(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	store.On("FindItemByName", ctx, "apples").Return(nil, repository.ErrItemNotFound)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "increase apples by 2")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found")
	store.AssertNotCalled(t, "UpdateItemQuantity")
}

// Нераспознанная команда не трогает хранилище
func TestInterpreter_Unknown_NoMutation(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	interp := NewInterpreter(store)

	result, err := interp.Execute(ctx, "what's the weather")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, IntentUnknown, result.Intent)
	store.AssertNotCalled(t, "AddItem")
	store.AssertNotCalled(t, "AddCategory")
	store.AssertNotCalled(t, "UpdateItemQuantity")
}

func TestInterpreter_StoreFailure_ReturnsError(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStore)

	storeErr := errors.New("both stores down")
	store.On("FindCategoryByName", ctx, "dairy").Return(nil, storeErr)

	interp := NewInterpreter(store)

	_, err := interp.Execute(ctx, "add milk to dairy")

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
