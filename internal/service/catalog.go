package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealcatalog/internal/catalog"
	"mealcatalog/internal/model"
	"mealcatalog/internal/source"
	"mealcatalog/internal/store"
)

// ErrMealNotFound is returned for ids missing from the loaded catalog
var ErrMealNotFound = errors.New("meal not found")

// CatalogService holds the fetched meal collection and the browsing
// sessions that view it.
type CatalogService struct {
	source   source.MealSource
	engine   *catalog.Engine
	sessions store.SessionStore
	logger   *zap.Logger

	mu       sync.RWMutex
	meals    []model.Meal
	byID     map[string]int
	loadedAt time.Time
}

// NewCatalogService creates a service with an empty collection. Call Load
// before serving traffic.
func NewCatalogService(src source.MealSource, engine *catalog.Engine, sessions store.SessionStore, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		source:   src,
		engine:   engine,
		sessions: sessions,
		logger:   logger,
		meals:    []model.Meal{},
		byID:     map[string]int{},
	}
}

// Load fetches the collection once. On failure the service keeps serving an
// empty collection and the error is returned for the caller to log.
func (s *CatalogService) Load(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	if err != nil {
		s.logger.Error("failed to load meals, serving an empty catalog", zap.Error(err))
	}
	return err
}

// Refresh re-fetches the collection and swaps it in. On failure the previous
// snapshot stays in place.
func (s *CatalogService) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	meals, err := s.source.FetchMeals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch meals: %w", err)
	}

	byID := make(map[string]int, len(meals))
	for i, m := range meals {
		if m.ID == "" {
			continue
		}
		if _, dup := byID[m.ID]; dup {
			s.logger.Warn("duplicate meal id", zap.String("id", m.ID))
			continue
		}
		byID[m.ID] = i
	}

	s.mu.Lock()
	s.meals = meals
	s.byID = byID
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("catalog loaded", zap.Int("meals", len(meals)), zap.Duration("took", time.Since(start)))
	return len(meals), nil
}

// Meals returns the current snapshot. Callers must not modify it.
func (s *CatalogService) Meals() []model.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meals
}

// LoadedAt is when the current snapshot was fetched; zero if never
func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Engine returns the pipeline configuration in use
func (s *CatalogService) Engine() *catalog.Engine {
	return s.engine
}

// GetMeal looks up one meal in the snapshot
func (s *CatalogService) GetMeal(id string) (*model.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, ErrMealNotFound
	}
	m := s.meals[i]
	return &m, nil
}

// Metadata describes the filter options of the snapshot
func (s *CatalogService) Metadata() model.FilterMetadata {
	return catalog.Metadata(s.Meals())
}

// Categories lists the category names present in the snapshot
func (s *CatalogService) Categories() []string {
	counts := s.Metadata().Categories
	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.Name
	}
	return names
}

// View computes a stateless window over the snapshot
func (s *CatalogService) View(f model.FilterState, loadedPages, pageSize int) (model.View, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return model.View{}, err
	}
	return s.engine.ComputeView(s.Meals(), f, loadedPages, pageSize), nil
}

// OpenSession starts a browsing session with optional initial filters
func (s *CatalogService) OpenSession(ctx context.Context, initial *model.FilterState) (*model.SessionResponse, error) {
	f := model.DefaultFilterState()
	if initial != nil {
		f = *initial
	}

	sess, err := catalog.NewSession(uuid.NewString(), f)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Debug("session opened", zap.String("session_id", sess.ID))
	return s.sessionResponse(sess), nil
}

// SessionView returns the current view of a session
func (s *CatalogService) SessionView(ctx context.Context, id string) (*model.SessionResponse, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// UpdateFilters replaces the session's filter state
func (s *CatalogService) UpdateFilters(ctx context.Context, id string, f model.FilterState) (*model.SessionResponse, error) {
	return s.mutate(ctx, id, func(sess *catalog.Session) error {
		return sess.ReplaceFilters(f)
	})
}

// SetSearchTerm updates only the search box of a session
func (s *CatalogService) SetSearchTerm(ctx context.Context, id, term string) (*model.SessionResponse, error) {
	return s.mutate(ctx, id, func(sess *catalog.Session) error {
		sess.SetSearchTerm(term)
		return nil
	})
}

// ClearFilter removes one active filter, or all of them for FilterAll
func (s *CatalogService) ClearFilter(ctx context.Context, id string, kind model.FilterKind) (*model.SessionResponse, error) {
	return s.mutate(ctx, id, func(sess *catalog.Session) error {
		return sess.ClearFilter(kind)
	})
}

// LoadMore reveals the next page. It is a no-op once everything is shown.
func (s *CatalogService) LoadMore(ctx context.Context, id string) (*model.SessionResponse, error) {
	return s.mutate(ctx, id, func(sess *catalog.Session) error {
		pageSize := s.engine.PageSize()
		total := len(s.engine.Pipeline(s.Meals(), sess.Filters))
		sess.LoadMore(total, pageSize)
		return nil
	})
}

// CloseSession discards a session
func (s *CatalogService) CloseSession(ctx context.Context, id string) error {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

func (s *CatalogService) mutate(ctx context.Context, id string, fn func(*catalog.Session) error) (*model.SessionResponse, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

func (s *CatalogService) sessionResponse(sess *catalog.Session) *model.SessionResponse {
	return &model.SessionResponse{
		SessionID: sess.ID,
		Filters:   sess.Filters,
		View:      s.engine.ComputeView(s.Meals(), sess.Filters, sess.LoadedPages, s.engine.PageSize()),
	}
}
