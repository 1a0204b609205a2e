package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category представляет категорию списка покупок
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName задает имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// Item представляет товар в списке покупок
// Количество не может быть отрицательным: уменьшение упирается в ноль
type Item struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName задает имя таблицы для GORM
func (Item) TableName() string {
	return "items"
}

// GroceryEvent представляет событие изменения списка покупок для Kafka
type GroceryEvent struct {
	EventType  string    `json:"event_type"` // CATEGORY_CREATED, CATEGORY_DELETED, ITEM_ADDED, ITEM_QUANTITY_CHANGED, ITEM_DELETED
	EntityID   uuid.UUID `json:"entity_id"`
	CategoryID uuid.UUID `json:"category_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CommandRecord представляет запись истории голосовых команд в MongoDB
type CommandRecord struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	Intent    string             `json:"intent" bson:"intent"`
	Success   bool               `json:"success" bson:"success"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
