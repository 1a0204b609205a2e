package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Заголовок, сигнализирующий что ответ собран из локального зеркала
const headerDegraded = "X-Degraded"

const defaultHistoryLimit = 20

// Загружаемые изображения не больше 5 МБ
const maxImageSize = 5 << 20

// GroceryHandler обрабатывает HTTP запросы списка покупок
type GroceryHandler struct {
	groceryService service.GroceryService
	validator      *validator.Validate
}

// NewGroceryHandler создает новый обработчик списка покупок
func NewGroceryHandler(groceryService service.GroceryService) *GroceryHandler {
	return &GroceryHandler{
		groceryService: groceryService,
		validator:      validator.New(),
	}
}

// GetCategories обрабатывает GET /categories
func (h *GroceryHandler) GetCategories(c *gin.Context) {
	categories, degraded, err := h.groceryService.GetCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to fetch categories"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
		Degraded:   degraded,
	})
}

// CreateCategory обрабатывает POST /categories
func (h *GroceryHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	category, degraded, err := h.groceryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to create category"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory обрабатывает DELETE /categories/:id
func (h *GroceryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	degraded, err := h.groceryService.RemoveCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Category not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to delete category"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Category deleted"})
}

// GetItems обрабатывает GET /categories/:id/items
func (h *GroceryHandler) GetItems(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	items, degraded, err := h.groceryService.GetItems(c.Request.Context(), categoryID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to fetch items"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusOK, entity.ItemListResponse{
		Items:    items,
		Total:    len(items),
		Degraded: degraded,
	})
}

// AddItem обрабатывает POST /categories/:id/items
func (h *GroceryHandler) AddItem(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	var req entity.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	item, degraded, err := h.groceryService.AddItem(c.Request.Context(), categoryID, req.Name)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to add item"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusCreated, item)
}

// UpdateQuantity обрабатывает PATCH /items/:id
func (h *GroceryHandler) UpdateQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req entity.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	degraded, err := h.groceryService.UpdateQuantity(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Item not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to update quantity"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Quantity updated"})
}

// DeleteItem обрабатывает DELETE /items/:id
func (h *GroceryHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	degraded, err := h.groceryService.RemoveItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Item not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to delete item"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Item deleted"})
}

// VoiceCommand обрабатывает POST /voice
// Нераспознанная команда - это не ошибка HTTP: ответ 200 с success=false
func (h *GroceryHandler) VoiceCommand(c *gin.Context) {
	var req entity.VoiceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	result, err := h.groceryService.HandleVoiceCommand(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to process command"})
		return
	}

	setDegraded(c, result.Outcome.Degraded())
	c.JSON(http.StatusOK, entity.VoiceCommandResponse{
		Success: result.Success,
		Intent:  string(result.Intent),
		Message: result.Message,
	})
}

// VoiceHistory обрабатывает GET /voice/history
func (h *GroceryHandler) VoiceHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	commands, err := h.groceryService.CommandHistory(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to fetch command history"})
		return
	}

	c.JSON(http.StatusOK, entity.CommandHistoryResponse{
		Commands: commands,
		Total:    len(commands),
	})
}

// UploadImage обрабатывает POST /images (multipart, поле image)
func (h *GroceryHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Image file required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read image"})
		return
	}

	// Уникальное имя предотвращает перезапись чужих загрузок
	filename := uuid.NewString() + filepath.Ext(fileHeader.Filename)

	url, degraded, err := h.groceryService.UploadImage(c.Request.Context(), filename, data)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Failed to upload image"})
		return
	}

	setDegraded(c, degraded)
	c.JSON(http.StatusCreated, entity.UploadImageResponse{
		URL:      url,
		Degraded: degraded,
	})
}

func setDegraded(c *gin.Context, degraded bool) {
	if degraded {
		c.Header(headerDegraded, "true")
	}
}

// formatValidationError превращает ошибку валидатора в читаемое сообщение
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		switch first.Tag() {
		case "required":
			return "Field '" + first.Field() + "' is required"
		case "min":
			return "Field '" + first.Field() + "' is too short"
		case "max":
			return "Field '" + first.Field() + "' is too long"
		case "gte":
			return "Field '" + first.Field() + "' must be non-negative"
		default:
			return "Field '" + first.Field() + "' is invalid"
		}
	}
	return "Validation failed"
}
