package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"greenbasket/internal/app/grocery/config"
	"greenbasket/internal/app/grocery/handler"
	infrahttp "greenbasket/internal/app/grocery/infrastructure/http"
	"greenbasket/internal/app/grocery/infrastructure/messaging"
	"greenbasket/internal/app/grocery/processor"
	"greenbasket/internal/app/grocery/repository"
	"greenbasket/internal/app/grocery/service"
	"greenbasket/internal/app/grocery/storage"
	"greenbasket/internal/app/grocery/util"
	"greenbasket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("grocery-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("grocery-service", cfg.LogLevel)

	// PostgreSQL: pgx pool для категорий, gorm для товаров.
	// Оба работают поверх одной базы
	pool, err := connectPgxPool(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL (pgx)")
	}
	defer pool.Close()
	logger.Info().Msg("Connected to PostgreSQL (pgx)")

	gormDB, err := connectGorm(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL (gorm)")
	}
	logger.Info().Msg("Connected to PostgreSQL (gorm)")

	// Redis хранит зеркальную копию коллекций для работы при сбое PostgreSQL
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Connected to Redis")

	// MongoDB хранит историю голосовых команд
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	mediaClient := infrahttp.NewMediaStoreClient(cfg.Media.BaseURL, cfg.Media.Bucket)

	categoryRepo := repository.NewCategoryRepository(pool)
	itemRepo := repository.NewItemRepository(gormDB)
	commandRepo := repository.NewCommandRepository(mongoClient.Database(cfg.MongoDB.Database))

	store := storage.NewResilientStore(categoryRepo, itemRepo, redisClient, mediaClient, kafkaProducer)
	groceryService := service.NewGroceryService(store, commandRepo)

	// Фоновая синхронизация зеркала
	scheduler := processor.NewMirrorScheduler(store)
	if err := scheduler.Start(context.Background(), cfg.Mirror.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start mirror scheduler")
	}
	defer scheduler.Stop()

	groceryHandler := handler.NewGroceryHandler(groceryService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(groceryHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Grocery Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Grocery Service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Grocery Service stopped gracefully")
}

// connectPgxPool подключается к PostgreSQL с повторными попытками.
// При запуске в Docker база может быть еще не готова
func connectPgxPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect via gorm, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to MongoDB, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
