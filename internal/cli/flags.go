package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	DBPath     string
	OutputDir  string
	LogLevel   string
	LogFile    string
	ListModels bool
	Archive    bool

	// Translation flags
	Provider          string
	OpenAIModel       string
	GeminiModel       string
	NoCache           bool
	SkipPronunciation bool

	// Input flags
	Artist    string
	Title     string
	BatchFile string
	Force     bool
	LyricsAPI string

	// Anki flags
	AnkiCSV  bool
	DeckName string

	// Analysis flags
	MinMatches int
	Period     string
	Months     int

	// Server flags
	Listen string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		DBPath:     DefaultDBPath(),
		OutputDir:  ".",
		LogLevel:   "warn",
		Provider:   "openai",
		DeckName:   "Punjabi Lyrics",
		MinMatches: 2,
		Period:     "all",
		Months:     3,
		Listen:     "localhost:8080",
	}
}

// DefaultDBPath returns the default library location
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "geet.db"
	}
	return filepath.Join(home, ".local", "state", "geet", "geet.db")
}
