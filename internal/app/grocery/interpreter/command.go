package interpreter

import (
	"regexp"
	"strconv"
)

// Intent - распознанное намерение голосовой команды
type Intent string

const (
	IntentAddItem          Intent = "add_item"
	IntentCreateCategory   Intent = "create_category"
	IntentIncreaseQuantity Intent = "increase_quantity"
	IntentDecreaseQuantity Intent = "decrease_quantity"
	IntentUnknown          Intent = "unknown"
)

// Command - разобранная голосовая команда
type Command struct {
	Intent   Intent
	ItemName string
	Category string
	Amount   int
}

// Шаблоны команд. Порядок важен: текст проверяется сверху вниз,
// побеждает первый совпавший шаблон
var (
	addPattern      = regexp.MustCompile(`(?i)^\s*add\s+(.+?)\s+to\s+(.+?)\s*$`)
	createPattern   = regexp.MustCompile(`(?i)^\s*create\s+category\s+(.+?)\s*$`)
	increasePattern = regexp.MustCompile(`(?i)^\s*increase\s+(.+?)(?:\s+by\s+(\d+))?\s*$`)
	decreasePattern = regexp.MustCompile(`(?i)^\s*decrease\s+(.+?)(?:\s+by\s+(\d+))?\s*$`)
)

// Parse разбирает текст команды. Для нераспознанного текста
// возвращает команду с IntentUnknown
func Parse(text string) Command {
	if m := addPattern.FindStringSubmatch(text); m != nil {
		return Command{
			Intent:   IntentAddItem,
			ItemName: m[1],
			Category: m[2],
		}
	}

	if m := createPattern.FindStringSubmatch(text); m != nil {
		return Command{
			Intent:   IntentCreateCategory,
			Category: m[1],
		}
	}

	if m := increasePattern.FindStringSubmatch(text); m != nil {
		return Command{
			Intent:   IntentIncreaseQuantity,
			ItemName: m[1],
			Amount:   parseAmount(m[2]),
		}
	}

	if m := decreasePattern.FindStringSubmatch(text); m != nil {
		return Command{
			Intent:   IntentDecreaseQuantity,
			ItemName: m[1],
			Amount:   parseAmount(m[2]),
		}
	}

	return Command{Intent: IntentUnknown}
}

// parseAmount превращает опциональную числовую группу в количество.
// Пустая группа означает единицу
func parseAmount(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
