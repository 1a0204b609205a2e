package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// MediaStoreClient клиент для внешнего хранилища изображений категорий
// Загружает бинарные данные и возвращает публично доступный URL
type MediaStoreClient struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
}

// NewMediaStoreClient создает новый клиент хранилища изображений
func NewMediaStoreClient(baseURL, bucket string) *MediaStoreClient {
	return &MediaStoreClient{
		baseURL: baseURL,
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Upload загружает изображение и возвращает публичный URL
// Имя файла генерируется вызывающей стороной и уникально для каждой загрузки
func (c *MediaStoreClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Хранилище отдает загруженные объекты по тому же пути
	return url, nil
}
