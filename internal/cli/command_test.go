package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if cmd.Use != "geet" {
		t.Errorf("Expected Use to be 'geet', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "Punjabi lyrics") {
		t.Errorf("Expected Short description to mention Punjabi lyrics, got %q", cmd.Short)
	}

	persistent := []string{
		"config", "db", "output", "log-level", "log-file", "provider",
		"openai-model", "gemini-model", "no-cache", "skip-pronunciation", "lyrics-api",
	}
	for _, name := range persistent {
		t.Run("persistent_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected persistent flag %s to exist", name)
			}
		})
	}

	for _, name := range []string{"list-models", "archive"} {
		t.Run("local_"+name, func(t *testing.T) {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags_Defaults(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	if dbFlag == nil {
		t.Fatal("db flag not found")
	}
	if dbFlag.DefValue != DefaultDBPath() {
		t.Errorf("Expected default db path %s, got %s", DefaultDBPath(), dbFlag.DefValue)
	}

	providerFlag := cmd.PersistentFlags().Lookup("provider")
	if providerFlag.DefValue != "openai" {
		t.Errorf("Expected default provider openai, got %s", providerFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantDB    string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `library:
  path: /test/geet.db
openai:
  key: test-key
cache:
  ttl: 1h`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantDB: "/test/geet.db",
		},
		{
			name:      "without config file",
			setupFunc: func(t *testing.T) string { return "" },
			wantDB:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			InitConfig(tt.setupFunc(t))

			t.Setenv("GEET_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			if tt.wantDB != "" && viper.GetString("library.path") != tt.wantDB {
				t.Errorf("Expected library.path %s, got %s", tt.wantDB, viper.GetString("library.path"))
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	resetViper(t)

	viper.Set("library.path", "/config/geet.db")
	viper.Set("translation.provider", "gemini")

	flags := NewFlags()
	ApplyConfig(flags)

	if flags.DBPath != "/config/geet.db" {
		t.Errorf("Expected DBPath from config, got %s", flags.DBPath)
	}
	if flags.Provider != "gemini" {
		t.Errorf("Expected provider from config, got %s", flags.Provider)
	}
	if flags.LogLevel != "warn" {
		t.Errorf("Expected default log level to survive, got %s", flags.LogLevel)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	cmd.PersistentFlags().Set("db", "/flag/geet.db")
	cmd.PersistentFlags().Set("provider", "gemini")

	if viper.GetString("library.path") != "/flag/geet.db" {
		t.Errorf("Expected library.path to be /flag/geet.db, got %s", viper.GetString("library.path"))
	}
	if viper.GetString("translation.provider") != "gemini" {
		t.Errorf("Expected translation.provider to be gemini, got %s", viper.GetString("translation.provider"))
	}
}

func TestGetAPIKeys(t *testing.T) {
	tests := []struct {
		name      string
		envName   string
		configKey string
		get       func() string
		envValue  string
		cfgValue  string
		expected  string
	}{
		{"openai from environment", "OPENAI_API_KEY", "openai.key", GetOpenAIKey, "env-key", "config-key", "env-key"},
		{"openai from config", "OPENAI_API_KEY", "openai.key", GetOpenAIKey, "", "config-key", "config-key"},
		{"openai unset", "OPENAI_API_KEY", "openai.key", GetOpenAIKey, "", "", ""},
		{"gemini from environment", "GEMINI_API_KEY", "gemini.key", GetGeminiKey, "env-key", "config-key", "env-key"},
		{"gemini from config", "GEMINI_API_KEY", "gemini.key", GetGeminiKey, "", "config-key", "config-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv(tt.envName, tt.envValue)
			if tt.cfgValue != "" {
				viper.Set(tt.configKey, tt.cfgValue)
			}

			if got := tt.get(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTranslationConfig(t *testing.T) {
	resetViper(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "")

	viper.Set("cache.redis_addr", "localhost:6379")
	viper.Set("cache.ttl", "2h")
	viper.Set("breaker.max_failures", 5)

	flags := NewFlags()
	flags.NoCache = true
	flags.OpenAIModel = "gpt-4o"

	cfg := TranslationConfig(flags)
	if cfg.OpenAIKey != "sk-test" || cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("Unexpected OpenAI settings: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.CacheTTL != 2*time.Hour {
		t.Errorf("Unexpected cache settings: %+v", cfg)
	}
	if !cfg.DisableCache {
		t.Error("Expected cache to be disabled")
	}
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("Expected 5 max failures, got %d", cfg.Breaker.MaxFailures)
	}
}

func TestLoggerConfig(t *testing.T) {
	resetViper(t)
	viper.Set("log.max_backups", 7)

	flags := NewFlags()
	flags.LogLevel = "debug"
	flags.LogFile = "/tmp/geet.log"

	cfg := LoggerConfig(flags)
	if cfg.Level != "debug" || cfg.OutputPath != "/tmp/geet.log" || cfg.MaxBackups != 7 {
		t.Errorf("Unexpected logger config: %+v", cfg)
	}
}
