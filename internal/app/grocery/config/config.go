package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Grocery Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, MongoDB, Kafka и JWT
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MongoDB  MongoDBConfig
	Kafka    KafkaConfig
	Media    MediaConfig
	Mirror   MirrorConfig
	JWT      JWTConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется как основное хранилище категорий и товаров
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки подключения к Redis
// Redis хранит зеркальную копию коллекций и используется как fallback,
// когда основное хранилище недоступно
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoDBConfig - настройки подключения к MongoDB
// Хранит историю обработанных голосовых команд
type MongoDBConfig struct {
	URI      string
	Database string
}

// KafkaConfig - настройки Kafka для отправки событий
// События отправляются при изменении списка покупок
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MediaConfig - настройки внешнего хранилища изображений
type MediaConfig struct {
	BaseURL string // Базовый URL media API
	Bucket  string // Bucket для изображений категорий
}

// MirrorConfig - настройки фоновой синхронизации зеркального кеша
type MirrorConfig struct {
	Schedule string // Cron-расписание (по умолчанию каждые 10 минут)
}

// JWTConfig - настройки для проверки JWT токенов
type JWTConfig struct {
	Secret string
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "grocery_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "grocery_service"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "grocery_events"),
		},
		Media: MediaConfig{
			BaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:9000"),
			Bucket:  getEnv("MEDIA_BUCKET", "grocery-images"),
		},
		Mirror: MirrorConfig{
			Schedule: getEnv("MIRROR_SCHEDULE", "@every 10m"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает строку подключения к PostgreSQL в формате URL для pgx
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
