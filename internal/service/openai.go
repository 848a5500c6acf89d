package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mealcatalog/internal/config"
	"mealcatalog/internal/model"
	"mealcatalog/internal/utils"
)

// ErrAIDisabled is returned when no API key is configured
var ErrAIDisabled = errors.New("OpenAI API is not enabled (missing API key)")

// OpenAIClient handles OpenAI-compatible API interactions
type OpenAIClient struct {
	config      *config.OpenAIConfig
	httpClient  *http.Client
	chunkParser StreamChunkParser
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client. The stream chunk
// format is picked from the base URL.
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	var parser StreamChunkParser
	switch {
	case IsNVIDIAProvider(cfg.APIBase):
		parser = &NVIDIAStreamChunkParser{}
		logger.Info("detected NVIDIA API provider (supports reasoning)")
	case IsOpenAIProvider(cfg.APIBase):
		parser = &OpenAIStreamChunkParser{}
		logger.Info("detected OpenAI API provider")
	default:
		parser = &OpenAIStreamChunkParser{}
		logger.Info("using standard OpenAI format", zap.String("api_base", cfg.APIBase))
	}

	return &OpenAIClient{
		config:      cfg,
		chunkParser: parser,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ExtraBody      map[string]any  `json:"extra_body,omitempty"` // e.g. {"chat_template_kwargs": {"thinking": true}}
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// EmbeddingRequest represents an embedding request
type EmbeddingRequest struct {
	Model          string         `json:"model"`
	Input          []string       `json:"input"`
	Dimensions     int            `json:"dimensions,omitempty"`
	EncodingFormat string         `json:"encoding_format,omitempty"` // NVIDIA requires "float"
	ExtraBody      map[string]any `json:"extra_body,omitempty"`      // e.g. {"truncate": "NONE"}
}

// EmbeddingResponse represents the embedding API response
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, ErrAIDisabled
	}
	c.applyChatDefaults(&req)

	body, err := c.post(ctx, "/chat/completions", req, "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result ChatCompletionResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}

// ChatCompletionStream performs a streaming chat completion request
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error {
	if !c.config.Enabled {
		return ErrAIDisabled
	}
	c.applyChatDefaults(&req)
	req.Stream = true

	body, err := c.post(ctx, "/chat/completions", req, "text/event-stream")
	if err != nil {
		return err
	}
	defer body.Close()

	reader := bufio.NewReader(body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		line = bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(data)
			if bytes.Equal(data, []byte("[DONE]")) {
				return nil
			}

			chunk, perr := c.chunkParser.ParseChunk(data)
			if perr != nil {
				c.logger.Warn("failed to parse stream chunk", zap.Error(perr))
			} else if cerr := callback(chunk); cerr != nil {
				return fmt.Errorf("callback error: %w", cerr)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// CreateEmbeddings creates embeddings for the given texts in batches
func (c *OpenAIClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.config.Enabled {
		return nil, ErrAIDisabled
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))

		embeddings, err := c.createEmbeddingBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings for batch %d: %w", i/batchSize, err)
		}
		all = append(all, embeddings...)

		// Rate limiting between batches
		if end < len(texts) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
	return all, nil
}

func (c *OpenAIClient) createEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := EmbeddingRequest{
		Model:          c.config.EmbeddingModel,
		Input:          texts,
		Dimensions:     c.config.EmbeddingDimensions,
		EncodingFormat: "float",
		ExtraBody:      c.extraBody("OPENAI_EMBEDDING_EXTRA_BODY", c.config.EmbeddingExtraBody),
	}

	body, err := c.post(ctx, "/embeddings", req, "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result EmbeddingResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range result.Data {
		if item.Index >= 0 && item.Index < len(embeddings) {
			embeddings[item.Index] = item.Embedding
		}
	}

	c.logger.Debug("created embeddings",
		zap.Int("count", len(embeddings)),
		zap.String("model", result.Model),
		zap.Int("tokens", result.Usage.TotalTokens))
	return embeddings, nil
}

const intentSystemPrompt = `You are the search assistant of a home-cooked meal marketplace. Parse the shopper's query into structured filters.

Extract the following information if present:
- search_term: a dish, ingredient or chef name to look for (string)
- category: meal category or cuisine, e.g. "Italian", "Indian", "Vegetarian", "Dessert" (string)
- price_min: minimum price in dollars (number)
- price_max: maximum price in dollars (number)
- rating_min: minimum rating from 0 to 5 (number)
- delivery_max: maximum delivery time in minutes (integer)
- experience_min: minimum chef experience in years (integer)
- sort_by: one of "name", "price", "rating", "deliveryMinutes"
- sort_order: "asc" or "desc"
- keywords: other important words from the query (array of strings)

Rules:
- Respond ONLY with valid JSON
- If a field is not mentioned, omit it
- "cheap" or "budget" with no amount means sort_by "price" with sort_order "asc"
- "best", "top rated" means sort_by "rating" with sort_order "desc"
- "fast", "quick delivery" with no amount means delivery_max 30
- "under $15" means price_max 15

Examples:
Query: "vegetarian curry under $15"
Response: {"category": "Vegetarian", "search_term": "curry", "price_max": 15}

Query: "top rated pizza delivered within 30 minutes"
Response: {"search_term": "pizza", "rating_min": 4.5, "delivery_max": 30, "sort_by": "rating", "sort_order": "desc"}

Query: "cheapest desserts from chefs with 5+ years experience"
Response: {"category": "Dessert", "experience_min": 5, "sort_by": "price", "sort_order": "asc"}`

func intentRequest(query string) ChatCompletionRequest {
	return ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: intentSystemPrompt},
			{Role: "user", Content: query},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}
}

// ParseIntentWithAI asks the chat model for structured meal filters
func (c *OpenAIClient) ParseIntentWithAI(ctx context.Context, query string) (*AIIntentResponse, error) {
	req := intentRequest(query)
	req.Temperature = 0.3

	resp, err := c.ChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return c.decodeIntent(resp.Choices[0].Message.Content)
}

// ParseIntentWithAIStream is ParseIntentWithAI over a streamed completion.
// Reasoning and answer text are forwarded to callback as they arrive.
func (c *OpenAIClient) ParseIntentWithAIStream(ctx context.Context, query string, callback func(thinking, content string) error) (*AIIntentResponse, error) {
	var content strings.Builder
	chunks := 0

	err := c.ChatCompletionStream(ctx, intentRequest(query), func(chunk *StreamChunk) error {
		chunks++
		if chunk.ThinkingContent != "" {
			if err := callback(chunk.ThinkingContent, ""); err != nil {
				return err
			}
		}
		if chunk.Content != "" {
			content.WriteString(chunk.Content)
			if err := callback("", chunk.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("streaming error: %w", err)
	}

	c.logger.Debug("intent stream completed", zap.Int("chunks", chunks), zap.Int("content_len", content.Len()))
	return c.decodeIntent(content.String())
}

func (c *OpenAIClient) decodeIntent(content string) (*AIIntentResponse, error) {
	var result AIIntentResponse
	if err := utils.ParseAIJSON(content, &result); err != nil {
		c.logger.Warn("failed to parse AI response", zap.String("content", content))
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if err := validateIntentResponse(&result); err != nil {
		return nil, fmt.Errorf("AI response validation failed: %w", err)
	}
	return &result, nil
}

// validateIntentResponse rejects values no meal filter can express
func validateIntentResponse(resp *AIIntentResponse) error {
	if resp.PriceMin != nil && *resp.PriceMin < 0 {
		return fmt.Errorf("price_min cannot be negative")
	}
	if resp.PriceMax != nil && *resp.PriceMax < 0 {
		return fmt.Errorf("price_max cannot be negative")
	}
	if resp.PriceMin != nil && resp.PriceMax != nil && *resp.PriceMin > *resp.PriceMax {
		return fmt.Errorf("price_min (%.2f) cannot be greater than price_max (%.2f)", *resp.PriceMin, *resp.PriceMax)
	}
	if resp.RatingMin != nil && (*resp.RatingMin < 0 || *resp.RatingMin > 5) {
		return fmt.Errorf("rating_min must be between 0 and 5")
	}
	if resp.DeliveryMax != nil && (*resp.DeliveryMax <= 0 || *resp.DeliveryMax > 240) {
		return fmt.Errorf("delivery_max must be between 1 and 240 minutes")
	}
	if resp.ExperienceMin != nil && (*resp.ExperienceMin < 0 || *resp.ExperienceMin > 60) {
		return fmt.Errorf("experience_min must be between 0 and 60 years")
	}
	if resp.SortBy != nil {
		if _, err := model.ParseSortKey(*resp.SortBy); err != nil {
			return err
		}
	}
	if resp.SortOrder != nil {
		if _, err := model.ParseSortDirection(*resp.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

func (c *OpenAIClient) applyChatDefaults(req *ChatCompletionRequest) {
	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == 0 && c.config.ChatTemperature > 0 {
		req.Temperature = c.config.ChatTemperature
	}
	if req.TopP == 0 && c.config.ChatTopP > 0 {
		req.TopP = c.config.ChatTopP
	}
	if req.MaxTokens == 0 && c.config.ChatMaxTokens > 0 {
		req.MaxTokens = c.config.ChatMaxTokens
	}
	if req.ExtraBody == nil {
		req.ExtraBody = c.extraBody("OPENAI_CHAT_EXTRA_BODY", c.config.ChatExtraBody)
	}
}

func (c *OpenAIClient) extraBody(name, raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		c.logger.Warn("ignoring invalid extra body", zap.String("setting", name), zap.Error(err))
		return nil
	}
	return extra
}

// post sends a JSON request and returns the body of a 200 response
func (c *OpenAIClient) post(ctx context.Context, path string, payload any, accept string) (io.ReadCloser, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.APIBase, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}
