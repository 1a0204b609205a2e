package entity

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ImageURL string `json:"image_url" validate:"omitempty,max=500"`
}

type CreateItemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type VoiceCommandRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

type VoiceCommandResponse struct {
	Success bool   `json:"success"`
	Intent  string `json:"intent"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CategoryListResponse - список категорий из снапшота
// Degraded=true означает, что данные получены из локального зеркала,
// а не из основного хранилища
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
	Degraded   bool       `json:"degraded"`
}

type ItemListResponse struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Degraded bool   `json:"degraded"`
}

type CommandHistoryResponse struct {
	Commands []CommandRecord `json:"commands"`
	Total    int             `json:"total"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	Degraded bool   `json:"degraded"`
}
