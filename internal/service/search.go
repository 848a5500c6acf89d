package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealcatalog/internal/config"
	"mealcatalog/internal/model"
)

var (
	// ErrLoggingDisabled is returned for feedback when no search log is configured
	ErrLoggingDisabled = errors.New("search logging is not configured")
	// ErrInvalidAction is returned for unknown feedback actions
	ErrInvalidAction = errors.New("invalid action, must be one of: click, order, favorite")
)

// Feedback actions
const (
	ActionClick    = "click"
	ActionOrder    = "order"
	ActionFavorite = "favorite"
)

// SearchLogger records searches and the actions taken on their results
type SearchLogger interface {
	LogSearch(ctx context.Context, entry model.SearchLog) error
	LogFeedback(ctx context.Context, searchID, mealID, action string) error
}

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// SearchService runs natural-language searches over the catalog
type SearchService struct {
	catalog *CatalogService
	intent  *IntentParser
	logs    SearchLogger
	limits  config.SearchConfig
	logger  *zap.Logger
}

// NewSearchService creates a new search service. logs may be nil, in which
// case searches are not recorded.
func NewSearchService(
	catalogService *CatalogService,
	intentParser *IntentParser,
	logs SearchLogger,
	limits config.SearchConfig,
	logger *zap.Logger,
) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		catalog: catalogService,
		intent:  intentParser,
		logs:    logs,
		limits:  limits,
		logger:  logger,
	}
}

// Search parses the query, merges it with explicit filters and returns the
// resulting view with matched reasons.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	start := time.Now()
	if err := validateExplicit(req.Filters); err != nil {
		return nil, err
	}

	intentResult := s.intent.Parse(ctx, req.Query)
	return s.respond(req, intentResult, start), nil
}

// SearchStream is Search with progress events for server-sent events
func (s *SearchService) SearchStream(ctx context.Context, req *model.SearchRequest, callback SearchEventCallback) (*model.SearchResponse, error) {
	start := time.Now()
	if err := validateExplicit(req.Filters); err != nil {
		return nil, err
	}

	if err := callback("parsing", map[string]any{"status": "Parsing your query..."}); err != nil {
		return nil, err
	}

	intentResult, err := s.intent.ParseStream(ctx, req.Query, func(thinking, content string) error {
		if thinking != "" {
			return callback("thinking", map[string]any{"content": thinking})
		}
		if content != "" {
			return callback("content", map[string]any{"content": content})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := callback("intent", intentResult); err != nil {
		return nil, err
	}
	if err := callback("searching", map[string]any{"status": "Searching meals..."}); err != nil {
		return nil, err
	}

	return s.respond(req, intentResult, start), nil
}

// LogFeedback records a shopper action on a search result
func (s *SearchService) LogFeedback(ctx context.Context, req *model.FeedbackRequest) error {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	switch action {
	case ActionClick, ActionOrder, ActionFavorite:
	default:
		return ErrInvalidAction
	}
	if s.logs == nil {
		return ErrLoggingDisabled
	}
	return s.logs.LogFeedback(ctx, req.SearchID, req.MealID, action)
}

func (s *SearchService) respond(req *model.SearchRequest, intentResult *model.IntentResult, start time.Time) *model.SearchResponse {
	filters := BuildFilters(req.Filters, intentResult.Slots)
	pages, pageSize := s.window(req.Options)

	view := s.catalog.Engine().ComputeView(s.catalog.Meals(), filters, pages, pageSize)
	took := time.Since(start).Milliseconds()

	resp := &model.SearchResponse{
		SearchID:      uuid.NewString(),
		Results:       ToSearchResults(view.Visible, filters),
		TotalFiltered: view.TotalFiltered,
		HasMore:       view.HasMore,
		LoadedPages:   view.LoadedPages,
		PageSize:      view.PageSize,
		Filters:       filters,
		ActiveFilters: view.ActiveFilters,
		Intent:        intentResult,
		Took:          took,
	}

	s.logSearch(req.Query, intentResult, resp)
	return resp
}

// window clamps the requested pages and page size to the configured limits
func (s *SearchService) window(opts *model.SearchOptions) (int, int) {
	pages, pageSize := 1, s.limits.DefaultPageSize
	if opts != nil {
		if opts.Pages > 0 {
			pages = opts.Pages
		}
		if opts.PageSize > 0 {
			pageSize = opts.PageSize
		}
	}
	if s.limits.MaxPageSize > 0 && pageSize > s.limits.MaxPageSize {
		pageSize = s.limits.MaxPageSize
	}
	if s.limits.MaxPages > 0 && pages > s.limits.MaxPages {
		pages = s.limits.MaxPages
	}
	return pages, pageSize
}

// logSearch records the search without blocking the response
func (s *SearchService) logSearch(query string, intentResult *model.IntentResult, resp *model.SearchResponse) {
	if s.logs == nil {
		return
	}

	ids := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		ids[i] = r.ID
	}
	entry := model.SearchLog{
		SearchID:       resp.SearchID,
		Query:          query,
		Slots:          intentResult.Slots,
		Filters:        resp.Filters,
		ResultCount:    resp.TotalFiltered,
		ReturnedMeals:  ids,
		ResponseTimeMs: int(resp.Took),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.logs.LogSearch(ctx, entry); err != nil {
			s.logger.Warn("failed to log search", zap.String("search_id", entry.SearchID), zap.Error(err))
		}
	}()
}

func validateExplicit(f *model.FilterState) error {
	if f == nil {
		return nil
	}
	if err := f.Normalize().Validate(); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	return nil
}
