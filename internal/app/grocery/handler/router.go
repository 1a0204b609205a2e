package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"greenbasket/pkg/logger"
	"greenbasket/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
// /health и /metrics публичны, остальное за JWT-аутентификацией
func SetupRoutes(groceryHandler *GroceryHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus метрики
	router.Use(metrics.GinPrometheusMiddleware("grocery-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{headerDegraded},
		AllowCredentials: true,
		MaxAge:           300 * time.Second,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "grocery-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	categories := router.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	{
		categories.GET("", groceryHandler.GetCategories)
		categories.POST("", groceryHandler.CreateCategory)
		categories.DELETE("/:id", groceryHandler.DeleteCategory)
		categories.GET("/:id/items", groceryHandler.GetItems)
		categories.POST("/:id/items", groceryHandler.AddItem)
	}

	items := router.Group("/items")
	items.Use(authMiddleware.Authenticate())
	{
		items.PATCH("/:id", groceryHandler.UpdateQuantity)
		items.DELETE("/:id", groceryHandler.DeleteItem)
	}

	voice := router.Group("/voice")
	voice.Use(authMiddleware.Authenticate())
	{
		voice.POST("", groceryHandler.VoiceCommand)
		voice.GET("/history", groceryHandler.VoiceHistory)
	}

	images := router.Group("/images")
	images.Use(authMiddleware.Authenticate())
	{
		images.POST("", groceryHandler.UploadImage)
	}

	return router
}
