package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRepository struct {
	db *pgxpool.Pool // Пул соединений с PostgreSQL для работы с категориями
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create создает новую категорию в PostgreSQL
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, image_url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	timer := metrics.NewDbTimer("grocery-service", metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.ImageURL, category.CreatedAt)
	if err != nil {
		metrics.RecordDbError("grocery-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID получает категорию по ID из PostgreSQL
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	query := `SELECT id, name, image_url, created_at FROM categories WHERE id = $1`

	var category entity.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.ImageURL,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return &category, nil
}

// GetByName получает категорию по имени без учета регистра
// Интерпретатор команд разрешает имена категорий именно через этот запрос
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	query := `
		SELECT id, name, image_url, created_at
		FROM categories
		WHERE LOWER(name) = LOWER($1)
		ORDER BY created_at ASC
		LIMIT 1
	`

	var category entity.Category
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(name)).Scan(
		&category.ID,
		&category.Name,
		&category.ImageURL,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}

	return &category, nil
}

// GetAll получает все категории в порядке создания
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	query := `SELECT id, name, image_url, created_at FROM categories ORDER BY created_at ASC`

	timer := metrics.NewDbTimer("grocery-service", metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError("grocery-service", metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.ImageURL, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Delete удаляет категорию из PostgreSQL
// Товары категории удаляются отдельным вызовом ItemRepository.DeleteByCategory
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`

	timer := metrics.NewDbTimer("grocery-service", metrics.DbOpDelete, "categories")
	defer timer.ObserveDuration()

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		metrics.RecordDbError("grocery-service", metrics.DbOpDelete)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
