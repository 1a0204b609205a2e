package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_AddItem(t *testing.T) {
	cmd := Parse("add milk to dairy")

	assert.Equal(t, IntentAddItem, cmd.Intent)
	assert.Equal(t, "milk", cmd.ItemName)
	assert.Equal(t, "dairy", cmd.Category)
}

func TestParse_AddItem_MultiWordNames(t *testing.T) {
	cmd := Parse("add greek yogurt to dairy products")

	assert.Equal(t, IntentAddItem, cmd.Intent)
	assert.Equal(t, "greek yogurt", cmd.ItemName)
	assert.Equal(t, "dairy products", cmd.Category)
}

func TestParse_CreateCategory(t *testing.T) {
	cmd := Parse("create category dairy")

	assert.Equal(t, IntentCreateCategory, cmd.Intent)
	assert.Equal(t, "dairy", cmd.Category)
}

func TestParse_Increase_WithAmount(t *testing.T) {
	cmd := Parse("increase apples by 2")

	assert.Equal(t, IntentIncreaseQuantity, cmd.Intent)
	assert.Equal(t, "apples", cmd.ItemName)
	assert.Equal(t, 2, cmd.Amount)
}

func TestParse_Increase_DefaultAmount(t *testing.T) {
	cmd := Parse("increase apples")

	assert.Equal(t, IntentIncreaseQuantity, cmd.Intent)
	assert.Equal(t, "apples", cmd.ItemName)
	assert.Equal(t, 1, cmd.Amount)
}

func TestParse_Decrease_WithAmount(t *testing.T) {
	cmd := Parse("decrease apples by 100")

	assert.Equal(t, IntentDecreaseQuantity, cmd.Intent)
	assert.Equal(t, "apples", cmd.ItemName)
	assert.Equal(t, 100, cmd.Amount)
}

func TestParse_Decrease_DefaultAmount(t *testing.T) {
	cmd := Parse("decrease apples")

	assert.Equal(t, IntentDecreaseQuantity, cmd.Intent)
	assert.Equal(t, 1, cmd.Amount)
}

func TestParse_CaseInsensitive(t *testing.T) {
	cmd := Parse("ADD Milk TO Dairy")

	assert.Equal(t, IntentAddItem, cmd.Intent)
	assert.Equal(t, "Milk", cmd.ItemName)
	assert.Equal(t, "Dairy", cmd.Category)
}

func TestParse_LeadingAndTrailingSpaces(t *testing.T) {
	cmd := Parse("  add milk to dairy  ")

	assert.Equal(t, IntentAddItem, cmd.Intent)
	assert.Equal(t, "milk", cmd.ItemName)
	assert.Equal(t, "dairy", cmd.Category)
}

// Первый совпавший шаблон побеждает: "add ... to ..." не должен
// провалиться в increase/decrease
func TestParse_FirstMatchWins(t *testing.T) {
	cmd := Parse("add increase to decrease")

	assert.Equal(t, IntentAddItem, cmd.Intent)
	assert.Equal(t, "increase", cmd.ItemName)
	assert.Equal(t, "decrease", cmd.Category)
}

func TestParse_Unknown(t *testing.T) {
	for _, text := range []string{
		"what's the weather",
		"",
		"remove milk",
		"add milk", // нет "to ..."
	} {
		cmd := Parse(text)
		assert.Equal(t, IntentUnknown, cmd.Intent, "text: %q", text)
	}
}
