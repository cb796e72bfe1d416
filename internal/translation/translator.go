package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/song"
)

const (
	defaultOpenAIModel = openai.GPT4oMini
	defaultGeminiModel = "gemini-2.0-flash"
	maxResponseTokens  = 4000
	requestTimeout     = 2 * time.Minute
)

// Translator translates raw lyrics into lyric lines
type Translator interface {
	// Translate returns one line record per lyric line
	Translate(ctx context.Context, lyrics string) ([]song.Line, error)

	// Name returns the provider name
	Name() string
}

// OpenAITranslator translates with the OpenAI chat completion API
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates an OpenAI translator. An empty baseURL uses
// the public API.
func NewOpenAITranslator(apiKey, model, baseURL string) *OpenAITranslator {
	if model == "" {
		model = defaultOpenAIModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// Translate sends the lyrics to OpenAI and parses the JSON reply
func (t *OpenAITranslator) Translate(ctx context.Context, lyrics string) ([]song.Line, error) {
	if err := ValidateLyrics(lyrics); err != nil {
		return nil, err
	}
	if t.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You translate Punjabi song lyrics for language learners and answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(lyrics),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.3,
	}

	start := time.Now()
	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	logger.Debug("openai translation finished",
		logger.String("model", t.model),
		logger.Duration("elapsed", time.Since(start)))

	return ParseResponse(resp.Choices[0].Message.Content)
}

// GeminiTranslator translates with the Google Gemini API
type GeminiTranslator struct {
	model  string
	client *genai.Client
}

// NewGeminiTranslator creates a Gemini translator
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{model: model, client: client}, nil
}

// Name returns the provider name
func (t *GeminiTranslator) Name() string {
	return "gemini"
}

// Translate sends the lyrics to Gemini and parses the JSON reply
func (t *GeminiTranslator) Translate(ctx context.Context, lyrics string) ([]song.Line, error) {
	if err := ValidateLyrics(lyrics); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(BuildPrompt(lyrics)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		MaxOutputTokens:  maxResponseTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("no translation returned")
	}
	return ParseResponse(text)
}
