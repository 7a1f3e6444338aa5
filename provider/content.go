package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/content-architect/outbound/client"
)

// GenerateRequest describes a content generation request.
type GenerateRequest struct {
	Topic       string   `json:"topic"`
	Audience    string   `json:"audience,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"`
	ToneOfVoice string   `json:"toneOfVoice,omitempty"`
	LLMTarget   string   `json:"llmTarget,omitempty"`
}

// Section is one titled block of generated content.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContentMetadata carries quality and sizing signals for a generation.
type ContentMetadata struct {
	OptimizedFor    string  `json:"optimizedFor"`
	WordCount       int     `json:"wordCount"`
	ReadingTime     int     `json:"readingTime"`
	LLMQualityScore float64 `json:"llmQualityScore"`
	SemanticScore   float64 `json:"semanticScore"`
}

// GeneratedContent is the result of a generation call.
type GeneratedContent struct {
	ContentID   string          `json:"contentId"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Sections    []Section       `json:"sections"`
	ContentType string          `json:"contentType"`
	Audience    string          `json:"audience"`
	Metadata    ContentMetadata `json:"metadata"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Analysis is the result of a content analysis call.
type Analysis struct {
	AnalysisID string `json:"analysisId"`
	Metrics    struct {
		ReadabilityScore float64 `json:"readabilityScore"`
		LLMQualityScore  float64 `json:"llmQualityScore"`
	} `json:"metrics"`
	Recommendations []string `json:"recommendations"`
}

// ContentChunk is one retrieval-sized piece of chunked content.
type ContentChunk struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Chunking is the result of a chunking call.
type Chunking struct {
	ChunkingID string         `json:"chunkingId"`
	Chunks     []ContentChunk `json:"chunks"`
}

// Content adapts a resilient client to the LLM content service.
type Content struct {
	caller Caller
}

// NewContent creates a content adapter.
func NewContent(caller Caller) *Content {
	return &Content{caller: caller}
}

// Generate produces structured content for a topic.
func (c *Content) Generate(ctx context.Context, req GenerateRequest) (*GeneratedContent, error) {
	if req.Topic == "" {
		return nil, ErrEmptyTopic
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.caller.Do(ctx, client.Request{
		Method:    http.MethodPost,
		Path:      "/llm-content/generate",
		Body:      body,
		Operation: "generate",
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Success bool             `json:"success"`
		Data    GeneratedContent `json:"data"`
	}
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Analyze scores existing content and suggests improvements.
func (c *Content) Analyze(ctx context.Context, content string) (*Analysis, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return nil, err
	}

	resp, err := c.caller.Do(ctx, client.Request{
		Method:    http.MethodPost,
		Path:      "/llm-content/analyze",
		Body:      body,
		Operation: "analyze",
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Success bool     `json:"success"`
		Data    Analysis `json:"data"`
	}
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Chunk splits existing content into retrieval-sized pieces.
func (c *Content) Chunk(ctx context.Context, content string) (*Chunking, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return nil, err
	}

	resp, err := c.caller.Do(ctx, client.Request{
		Method:    http.MethodPost,
		Path:      "/llm-content/chunk",
		Body:      body,
		Operation: "chunk",
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Success bool     `json:"success"`
		Data    Chunking `json:"data"`
	}
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
