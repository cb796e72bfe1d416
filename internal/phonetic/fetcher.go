package phonetic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/geet/internal/song"
)

// ErrNoAPIKey is returned when the fetcher has no OpenAI key
var ErrNoAPIKey = errors.New("OpenAI API key not configured")

// Fetcher asks OpenAI for pronunciation guides of Punjabi lines
type Fetcher struct {
	apiKey string
	client *openai.Client
}

// NewFetcher creates a new pronunciation fetcher. An empty baseURL uses the
// public API.
func NewFetcher(apiKey, baseURL string) *Fetcher {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Fetcher{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Pronounce returns an English-letter transliteration of a Punjabi line
func (f *Fetcher) Pronounce(ctx context.Context, punjabi string) (string, error) {
	if f.apiKey == "" {
		return "", ErrNoAPIKey
	}

	punjabi = strings.TrimSpace(punjabi)
	if punjabi == "" {
		return "", fmt.Errorf("nothing to pronounce")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You help learners sing Punjabi songs. Reply with a simple English-letter transliteration of the line and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Transliterate this Punjabi line: %s", punjabi),
			},
		},
		Temperature: 0.2,
		MaxTokens:   200,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`), nil
}

// NeedsPronunciation reports whether a line is written in a non-Latin
// script and has no pronunciation yet.
func NeedsPronunciation(line song.Line) bool {
	if !line.HasSource() || strings.TrimSpace(line.Pronunciation) != "" {
		return false
	}
	for _, r := range line.Punjabi {
		if unicode.IsLetter(r) && r > unicode.MaxLatin1 {
			return true
		}
	}
	return false
}

// FillMissing sets the pronunciation of every line that needs one and
// returns the number of lines filled. It stops at the first error.
func (f *Fetcher) FillMissing(ctx context.Context, lines []song.Line) (int, error) {
	filled := 0
	for i := range lines {
		if !NeedsPronunciation(lines[i]) {
			continue
		}

		pron, err := f.Pronounce(ctx, lines[i].Punjabi)
		if err != nil {
			return filled, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines[i].Pronunciation = pron
		filled++
	}
	return filled, nil
}
