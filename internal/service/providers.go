package service

import (
	"encoding/json"
	"strings"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// streamDelta covers both the standard OpenAI delta and the NVIDIA/DeepSeek
// variant that adds reasoning_content.
type streamDelta struct {
	Choices []struct {
		Delta struct {
			Role             string  `json:"role,omitempty"`
			Content          string  `json:"content,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

func (d streamDelta) chunk(withReasoning bool) *StreamChunk {
	c := &StreamChunk{}
	if len(d.Choices) == 0 {
		return c
	}
	choice := d.Choices[0]
	c.Role = choice.Delta.Role
	c.Content = choice.Delta.Content
	c.Done = choice.FinishReason != ""
	if withReasoning && choice.Delta.ReasoningContent != nil {
		c.ThinkingContent = *choice.Delta.ReasoningContent
	}
	return c
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts a standard chunk; reasoning fields are ignored
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var d streamDelta
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d.chunk(false), nil
}

// NVIDIAStreamChunkParser parses NVIDIA-hosted model chunks, which carry
// the model's reasoning in reasoning_content
type NVIDIAStreamChunkParser struct{}

// ParseChunk converts an NVIDIA/DeepSeek chunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var d streamDelta
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d.chunk(true), nil
}

// IsOpenAIProvider checks if the base URL is the official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// IsNVIDIAProvider checks if the base URL is the NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}
