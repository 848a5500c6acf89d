package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"mealcatalog/internal/model"
)

//go:embed schema.sql
var schema string

const mealColumns = `
		id, name, chef_id, chef_name, ingredients, price, rating,
		delivery_minutes, chef_experience_years, category, cuisine,
		image_url, description, created_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryFromDB(db), nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the meals and search_logs tables when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// FetchMeals loads the whole catalog. It makes the repository a meal source.
func (r *PostgresRepository) FetchMeals(ctx context.Context) ([]model.Meal, error) {
	query := fmt.Sprintf(`SELECT %s FROM meals WHERE is_available = true ORDER BY created_at, id`, mealColumns)

	meals := []model.Meal{}
	if err := r.db.SelectContext(ctx, &meals, query); err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}
	return meals, nil
}

// GetMealByID retrieves a single meal. A missing meal is (nil, nil).
func (r *PostgresRepository) GetMealByID(ctx context.Context, id string) (*model.Meal, error) {
	var meal model.Meal
	query := fmt.Sprintf(`SELECT %s FROM meals WHERE id = $1`, mealColumns)
	err := r.db.GetContext(ctx, &meal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

// BatchUpdateEmbeddings updates embeddings for multiple meals in one transaction
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to start transaction: %v", err)}
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE meals SET embedding = $1, embedding_text = $2, updated_at = NOW() WHERE id = $3`)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to prepare statement: %v", err)}
	}
	defer stmt.Close()

	for _, item := range items {
		res, err := stmt.ExecContext(ctx, pgvector.NewVector(item.Embedding), item.Text, item.MealID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("meal %s: %v", item.MealID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			errs = append(errs, fmt.Sprintf("meal %s: not found", item.MealID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		return 0, append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
	}

	return success, errs
}

// LogSearch records a natural-language search
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLog) error {
	slots, err := json.Marshal(entry.Slots)
	if err != nil {
		return fmt.Errorf("failed to encode intent slots: %w", err)
	}
	filters, err := json.Marshal(entry.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	query := `
		INSERT INTO search_logs (search_id, query, intent_slots, filters, result_count, returned_meal_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.SearchID, entry.Query, slots, filters,
		entry.ResultCount, pq.Array(entry.ReturnedMeals), entry.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback attaches a user action to a logged search
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID, mealID, action string) error {
	query := `
		UPDATE search_logs
		SET clicked_meal_id = $2, action = $3
		WHERE search_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, searchID, mealID, strings.ToLower(action))
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to log feedback: %w", ErrSearchNotFound)
	}
	return nil
}

// ErrSearchNotFound is returned when feedback names an unknown search id
var ErrSearchNotFound = errors.New("search not found")
