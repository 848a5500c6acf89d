package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mealcatalog/internal/model"
	"mealcatalog/internal/utils"
)

// confidence reported for validated AI results
const aiConfidence = 0.95

// IntentParser turns a shopper's free-text query into intent slots using AI.
// Without a working AI client the whole query becomes the search term.
type IntentParser struct {
	aiClient   AIClient
	categories func() []string
	logger     *zap.Logger
}

// NewIntentParser creates a new intent parser. categories lists the catalog's
// known categories so AI output can be snapped onto them; it may be nil.
func NewIntentParser(aiClient AIClient, categories func() []string, logger *zap.Logger) *IntentParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentParser{
		aiClient:   aiClient,
		categories: categories,
		logger:     logger,
	}
}

// Parse extracts intent slots from query
func (p *IntentParser) Parse(ctx context.Context, query string) *model.IntentResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyIntent()
	}

	if !p.aiEnabled() {
		p.logger.Debug("AI disabled, using raw query as search term")
		return fallbackIntent(query)
	}

	aiResult, err := p.aiClient.ParseIntentWithAI(ctx, query)
	if err != nil {
		p.logger.Warn("AI intent parsing failed, using raw query", zap.String("query", query), zap.Error(err))
		return fallbackIntent(query)
	}
	return p.toIntent(query, aiResult)
}

// ParseStream is Parse with streaming progress. It never returns an error
// for AI failures; those degrade to the raw-query intent.
func (p *IntentParser) ParseStream(ctx context.Context, query string, callback func(thinking, content string) error) (*model.IntentResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyIntent(), nil
	}

	if !p.aiEnabled() {
		return fallbackIntent(query), nil
	}

	aiResult, err := p.aiClient.ParseIntentWithAIStream(ctx, query, callback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("AI streaming intent parsing failed, using raw query", zap.String("query", query), zap.Error(err))
		return fallbackIntent(query), nil
	}
	return p.toIntent(query, aiResult), nil
}

func (p *IntentParser) aiEnabled() bool {
	return p.aiClient != nil && p.aiClient.IsEnabled()
}

func (p *IntentParser) toIntent(query string, ai *AIIntentResponse) *model.IntentResult {
	slots := &model.IntentSlots{
		SearchTerm:    trimmed(ai.SearchTerm),
		PriceMin:      ai.PriceMin,
		PriceMax:      ai.PriceMax,
		RatingMin:     ai.RatingMin,
		DeliveryMax:   ai.DeliveryMax,
		ExperienceMin: ai.ExperienceMin,
		SortBy:        ai.SortBy,
		SortOrder:     ai.SortOrder,
	}

	if c := trimmed(ai.Category); c != nil {
		var known []string
		if p.categories != nil {
			known = p.categories()
		}
		category := utils.NormalizeCategory(*c, known)
		slots.Category = &category
	}

	keywords := append([]string{}, ai.Keywords...)
	keywords = append(keywords, query)

	confidence := aiConfidence
	if ai.Confidence > 0 && ai.Confidence <= 1 {
		confidence = ai.Confidence
	}

	p.logger.Debug("intent parsed", zap.String("query", query), zap.Any("slots", slots))
	return &model.IntentResult{
		Slots:      slots,
		Keywords:   keywords,
		Confidence: confidence,
	}
}

func emptyIntent() *model.IntentResult {
	return &model.IntentResult{
		Slots:      &model.IntentSlots{},
		Keywords:   []string{},
		Confidence: 0,
	}
}

func fallbackIntent(query string) *model.IntentResult {
	return &model.IntentResult{
		Slots:      &model.IntentSlots{SearchTerm: &query},
		Keywords:   []string{query},
		Confidence: 0,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// BuildFilters merges explicit filters with intent slots. Explicit values
// win; slot values are snapped onto the storefront's buckets. If the merged
// state is invalid the slots are dropped except for the search term.
func BuildFilters(explicit *model.FilterState, slots *model.IntentSlots) model.FilterState {
	base := model.DefaultFilterState()
	explicitSort := false
	if explicit != nil {
		base = explicit.Normalize()
		explicitSort = explicit.SortKey != ""
	}
	if slots == nil {
		return base
	}

	merged := base
	if merged.SearchTerm == "" && slots.SearchTerm != nil {
		merged.SearchTerm = *slots.SearchTerm
	}
	if merged.Category == nil && slots.Category != nil {
		merged.Category = slots.Category
	}
	if merged.PriceRange.Min == nil && slots.PriceMin != nil {
		merged.PriceRange.Min = slots.PriceMin
	}
	if merged.PriceRange.Max == nil && slots.PriceMax != nil {
		merged.PriceRange.Max = slots.PriceMax
	}
	if merged.RatingFloor == nil && slots.RatingMin != nil {
		merged.RatingFloor = model.Float64Ptr(model.SnapRatingFloor(*slots.RatingMin))
	}
	if merged.DeliveryCeiling == nil && slots.DeliveryMax != nil {
		merged.DeliveryCeiling = model.IntPtr(model.SnapDeliveryCeiling(*slots.DeliveryMax))
	}
	if merged.ExperienceFloor == nil && slots.ExperienceMin != nil {
		merged.ExperienceFloor = model.IntPtr(model.SnapExperienceFloor(*slots.ExperienceMin))
	}
	if !explicitSort && slots.SortBy != nil {
		if key, err := model.ParseSortKey(*slots.SortBy); err == nil {
			merged.SortKey = key
			merged.SortDirection = model.SortAsc
			if slots.SortOrder != nil {
				if dir, err := model.ParseSortDirection(*slots.SortOrder); err == nil {
					merged.SortDirection = dir
				}
			}
		}
	}

	merged = merged.Normalize()
	if merged.Validate() != nil {
		if base.SearchTerm == "" && slots.SearchTerm != nil {
			base.SearchTerm = *slots.SearchTerm
		}
		return base
	}
	return merged
}
