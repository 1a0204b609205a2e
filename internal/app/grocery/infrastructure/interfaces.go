package infrastructure

import (
	"context"
)

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// MediaClient интерфейс клиента внешнего хранилища изображений
type MediaClient interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}
