package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mealcatalog/internal/model"
)

// ErrEmbeddingsDisabled is returned when no vector store is configured
var ErrEmbeddingsDisabled = errors.New("embedding storage is not configured")

// EmbeddingStore persists meal embeddings
type EmbeddingStore interface {
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// EmbeddingService stores meal embeddings, either supplied by the caller or
// generated from the catalog with the AI client.
type EmbeddingService struct {
	catalog    *CatalogService
	ai         AIClient
	store      EmbeddingStore
	dimensions int
	logger     *zap.Logger
}

// NewEmbeddingService creates a new embedding service. dimensions is the
// vector size the store expects; 0 accepts any size.
func NewEmbeddingService(catalogService *CatalogService, ai AIClient, store EmbeddingStore, dimensions int, logger *zap.Logger) *EmbeddingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingService{
		catalog:    catalogService,
		ai:         ai,
		store:      store,
		dimensions: dimensions,
		logger:     logger,
	}
}

// UpdateEmbeddings stores caller-supplied embeddings
func (s *EmbeddingService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string, error) {
	if s.store == nil {
		return 0, nil, ErrEmbeddingsDisabled
	}
	if s.dimensions > 0 {
		for i, item := range items {
			if len(item.Embedding) != s.dimensions {
				return 0, nil, fmt.Errorf("invalid embedding dimension at index %d: got %d, expected %d",
					i, len(item.Embedding), s.dimensions)
			}
		}
	}
	success, errs := s.store.BatchUpdateEmbeddings(ctx, items)
	return success, errs, nil
}

// EmbedCatalog generates and stores embeddings for every meal in the snapshot
func (s *EmbeddingService) EmbedCatalog(ctx context.Context) (*model.EmbeddingBatchResponse, error) {
	if s.store == nil {
		return nil, ErrEmbeddingsDisabled
	}
	if s.ai == nil || !s.ai.IsEnabled() {
		return nil, ErrAIDisabled
	}

	meals := s.catalog.Meals()
	texts := make([]string, len(meals))
	for i, m := range meals {
		texts[i] = EmbeddingText(m)
	}

	vectors, err := s.ai.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, err
	}

	items := make([]model.EmbeddingItem, 0, len(meals))
	for i, m := range meals {
		if i >= len(vectors) || len(vectors[i]) == 0 {
			continue
		}
		items = append(items, model.EmbeddingItem{MealID: m.ID, Embedding: vectors[i], Text: texts[i]})
	}

	success, errs := s.store.BatchUpdateEmbeddings(ctx, items)
	s.logger.Info("catalog embedded", zap.Int("meals", len(meals)), zap.Int("stored", success), zap.Int("errors", len(errs)))
	return &model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(meals) - success,
		Errors:  errs,
	}, nil
}

// EmbeddingText is the text a meal is embedded from
func EmbeddingText(m model.Meal) string {
	parts := []string{m.Name}
	if m.Category != nil {
		parts = append(parts, *m.Category)
	}
	if m.Cuisine != nil {
		parts = append(parts, *m.Cuisine)
	}
	if m.ChefName != "" {
		parts = append(parts, "by "+m.ChefName)
	}
	if len(m.Ingredients) > 0 {
		parts = append(parts, "ingredients: "+m.IngredientText())
	}
	if m.Description != nil {
		parts = append(parts, *m.Description)
	}
	return strings.Join(parts, ". ")
}
