package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/translation"
)

// InitConfig loads .env, the config file and GEET_* environment variables
func InitConfig(cfgFile string) {
	// A missing .env file is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".geet" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".geet")
	}

	viper.SetDefault("cache.ttl", "168h")
	viper.SetDefault("cache.redis_db", 0)

	viper.SetEnvPrefix("GEET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies config file values into flags the user did not set
// on the command line.
func ApplyConfig(flags *Flags) {
	if v := viper.GetString("library.path"); v != "" {
		flags.DBPath = v
	}
	if v := viper.GetString("output.directory"); v != "" {
		flags.OutputDir = v
	}
	if v := viper.GetString("log.level"); v != "" {
		flags.LogLevel = v
	}
	if v := viper.GetString("log.file"); v != "" {
		flags.LogFile = v
	}
	if v := viper.GetString("translation.provider"); v != "" {
		flags.Provider = v
	}
	if v := viper.GetString("translation.openai_model"); v != "" {
		flags.OpenAIModel = v
	}
	if v := viper.GetString("translation.gemini_model"); v != "" {
		flags.GeminiModel = v
	}
	if v := viper.GetString("lyrics.api"); v != "" {
		flags.LyricsAPI = v
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}

// TranslationConfig builds the translation provider configuration
func TranslationConfig(flags *Flags) translation.Config {
	cfg := translation.DefaultConfig()
	cfg.Provider = flags.Provider
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.OpenAIModel = flags.OpenAIModel
	cfg.OpenAIBaseURL = viper.GetString("openai.base_url")
	cfg.GeminiKey = GetGeminiKey()
	cfg.GeminiModel = flags.GeminiModel
	cfg.RedisAddr = viper.GetString("cache.redis_addr")
	cfg.RedisPassword = viper.GetString("cache.redis_password")
	cfg.RedisDB = viper.GetInt("cache.redis_db")
	cfg.DisableCache = flags.NoCache

	if ttl := viper.GetDuration("cache.ttl"); ttl > 0 {
		cfg.CacheTTL = ttl
	}
	if n := viper.GetInt("breaker.max_failures"); n > 0 {
		cfg.Breaker.MaxFailures = uint32(n)
	}
	if d := viper.GetDuration("breaker.open_timeout"); d > 0 {
		cfg.Breaker.OpenTimeout = d
	}
	return cfg
}

// LoggerConfig builds the logger configuration
func LoggerConfig(flags *Flags) logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = flags.LogLevel
	cfg.OutputPath = flags.LogFile
	if n := viper.GetInt("log.max_size"); n > 0 {
		cfg.MaxSize = n
	}
	if n := viper.GetInt("log.max_backups"); n > 0 {
		cfg.MaxBackups = n
	}
	if n := viper.GetInt("log.max_age"); n > 0 {
		cfg.MaxAge = n
	}
	cfg.Compress = viper.GetBool("log.compress")
	return cfg
}

// RequestTimeout is the per-request timeout of the HTTP API
func RequestTimeout() time.Duration {
	if d := viper.GetDuration("server.request_timeout"); d > 0 {
		return d
	}
	return 3 * time.Minute
}
