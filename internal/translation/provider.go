package translation

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/geet/internal/logger"
)

// Config selects and configures a translation provider
type Config struct {
	Provider string // "openai" or "gemini"

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey   string
	GeminiModel string

	// Redis cache; empty RedisAddr uses the in-memory cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	DisableCache bool
	Breaker      BreakerConfig
}

// DefaultConfig returns the default provider configuration
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		CacheTTL: 7 * 24 * time.Hour,
		Breaker:  DefaultBreakerConfig(),
	}
}

// NewTranslator builds the configured provider wrapped in a breaker and a cache
func NewTranslator(ctx context.Context, cfg Config) (Translator, error) {
	var (
		base Translator
		err  error
	)

	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or add openai.key to the config file")
		}
		base = NewOpenAITranslator(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "gemini":
		base, err = NewGeminiTranslator(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("%w. Set GEMINI_API_KEY or add gemini.key to the config file", err)
		}
	default:
		return nil, fmt.Errorf("unknown translation provider: %s (supported: openai, gemini)", cfg.Provider)
	}

	var translator Translator = NewBreakerTranslator(base, cfg.Breaker)
	if cfg.DisableCache {
		return translator, nil
	}

	var cache Cache = NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			logger.Warn("falling back to in-memory translation cache", logger.Err(err))
		} else {
			cache = redisCache
		}
	}

	return NewCachedTranslator(translator, cache), nil
}
