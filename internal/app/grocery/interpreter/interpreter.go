package interpreter

import (
	"context"
	"errors"
	"fmt"

	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/storage"
)

// Result - итог обработки голосовой команды
type Result struct {
	Intent  Intent
	Success bool
	Message string
	Outcome storage.Outcome
}

// Interpreter исполняет голосовые команды над хранилищем списка покупок
type Interpreter struct {
	store storage.Store
}

func NewInterpreter(store storage.Store) *Interpreter {
	return &Interpreter{store: store}
}

// Execute разбирает текст команды и выполняет её.
// Нераспознанная команда или отсутствующая сущность дают неуспешный
// результат без изменения данных. Ошибка возвращается только при
// отказе обоих хранилищ
func (i *Interpreter) Execute(ctx context.Context, text string) (*Result, error) {
	cmd := Parse(text)

	switch cmd.Intent {
	case IntentAddItem:
		return i.addItem(ctx, cmd)
	case IntentCreateCategory:
		return i.createCategory(ctx, cmd)
	case IntentIncreaseQuantity:
		return i.changeQuantity(ctx, cmd, cmd.Amount)
	case IntentDecreaseQuantity:
		return i.changeQuantity(ctx, cmd, -cmd.Amount)
	default:
		return &Result{
			Intent:  IntentUnknown,
			Success: false,
			Message: "Sorry, I didn't understand that command",
			Outcome: storage.OutcomePrimary,
		}, nil
	}
}

func (i *Interpreter) addItem(ctx context.Context, cmd Command) (*Result, error) {
	category, err := i.store.FindCategoryByName(ctx, cmd.Category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return &Result{
				Intent:  cmd.Intent,
				Success: false,
				Message: fmt.Sprintf("Category %q not found", cmd.Category),
				Outcome: storage.OutcomePrimary,
			}, nil
		}
		return nil, err
	}

	item, outcome, err := i.store.AddItem(ctx, category.ID, cmd.ItemName)
	if err != nil {
		return &Result{Intent: cmd.Intent, Outcome: outcome}, err
	}

	return &Result{
		Intent:  cmd.Intent,
		Success: true,
		Message: fmt.Sprintf("Added %s to %s", item.Name, category.Name),
		Outcome: outcome,
	}, nil
}

func (i *Interpreter) createCategory(ctx context.Context, cmd Command) (*Result, error) {
	category, outcome, err := i.store.AddCategory(ctx, cmd.Category, "")
	if err != nil {
		return &Result{Intent: cmd.Intent, Outcome: outcome}, err
	}

	return &Result{
		Intent:  cmd.Intent,
		Success: true,
		Message: fmt.Sprintf("Created category %s", category.Name),
		Outcome: outcome,
	}, nil
}

// changeQuantity сдвигает количество товара на delta.
// Отрицательный сдвиг упирается в ноль и не удаляет товар
func (i *Interpreter) changeQuantity(ctx context.Context, cmd Command, delta int) (*Result, error) {
	item, err := i.store.FindItemByName(ctx, cmd.ItemName)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return &Result{
				Intent:  cmd.Intent,
				Success: false,
				Message: fmt.Sprintf("Item %q not found", cmd.ItemName),
				Outcome: storage.OutcomePrimary,
			}, nil
		}
		return nil, err
	}

	quantity := item.Quantity + delta
	if quantity < 0 {
		quantity = 0
	}

	outcome, err := i.store.UpdateItemQuantity(ctx, item.ID, quantity)
	if err != nil {
		return &Result{Intent: cmd.Intent, Outcome: outcome}, err
	}

	verb := "Increased"
	if delta < 0 {
		verb = "Decreased"
	}

	return &Result{
		Intent:  cmd.Intent,
		Success: true,
		Message: fmt.Sprintf("%s %s to %d", verb, item.Name, quantity),
		Outcome: outcome,
	}, nil
}
