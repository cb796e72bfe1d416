package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the public API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categorized splits model IDs into translation-capable chat models and
// everything else, both sorted.
type Categorized struct {
	Chat  []string
	Other []string
}

func categorize(ids []string) Categorized {
	var c Categorized
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"), strings.Contains(id, "audio"),
			strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"),
			strings.Contains(id, "image"), strings.Contains(id, "dall-e"):
			c.Other = append(c.Other, id)
		case strings.HasPrefix(id, "gpt"), strings.HasPrefix(id, "o1"),
			strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"), strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		default:
			c.Other = append(c.Other, id)
		}
	}
	sort.Strings(c.Chat)
	sort.Strings(c.Other)
	return c
}

// Models fetches and categorizes the models available to the API key
func (l *Lister) Models(ctx context.Context) (Categorized, error) {
	if l.apiKey == "" {
		return Categorized{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .geet.yaml")
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return Categorized{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}
	return categorize(ids), nil
}

// ListAvailableModels prints the chat models usable for translation
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	models, err := l.Models(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Chat models (usable with --model for lyrics translation):")
	if len(models.Chat) == 0 {
		fmt.Println("  No chat models found")
	}
	for _, model := range models.Chat {
		fmt.Printf("  %s\n", model)
	}

	if len(models.Other) > 0 {
		fmt.Printf("\n%d other models (audio, image, embeddings, ...) are not listed\n", len(models.Other))
	}
	return nil
}
