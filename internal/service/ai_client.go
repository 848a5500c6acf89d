package service

import (
	"context"
)

// AIClient is the interface for AI service providers
type AIClient interface {
	// ParseIntentWithAI parses a shopper's query into structured meal filters
	ParseIntentWithAI(ctx context.Context, query string) (*AIIntentResponse, error)

	// ParseIntentWithAIStream parses with streaming support.
	// The callback receives (thinkingContent, regularContent) for each chunk.
	ParseIntentWithAIStream(ctx context.Context, query string, callback func(thinking, content string) error) (*AIIntentResponse, error)

	// CreateEmbeddings generates embeddings for texts
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	IsEnabled() bool
}

// StreamChunk is one provider-neutral piece of a streamed completion
type StreamChunk struct {
	Content string

	// Reasoning text some providers stream before the answer
	ThinkingContent string

	Role string
	Done bool
}

// AIIntentResponse is the JSON object the model is asked to return
type AIIntentResponse struct {
	SearchTerm    *string  `json:"search_term,omitempty"`
	Category      *string  `json:"category,omitempty"`
	PriceMin      *float64 `json:"price_min,omitempty"`
	PriceMax      *float64 `json:"price_max,omitempty"`
	RatingMin     *float64 `json:"rating_min,omitempty"`
	DeliveryMax   *int     `json:"delivery_max,omitempty"`
	ExperienceMin *int     `json:"experience_min,omitempty"`
	SortBy        *string  `json:"sort_by,omitempty"`
	SortOrder     *string  `json:"sort_order,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Confidence    float64  `json:"confidence,omitempty"`
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
