package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/geet/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geet",
		Short: "Punjabi lyrics translator and cross-referencing library",
		Long: `geet translates Punjabi song lyrics line by line into Hindi and English,
keeps a library of translated songs and finds shared phrases, recurring
themes and listening trends across it.

Examples:
  geet fetch "Diljit Dosanjh" "Lover"   # Fetch, translate and save a song
  geet file lyrics.txt --title Lover    # Translate lyrics from a text or MP3 file
  geet batch songs.txt                  # Process "Artist = Song" lines
  geet similar <song-id>                # Songs sharing phrases with a song
  geet themes                           # Most common words in the library
  geet serve                            # Start the HTTP API`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.geet.yaml)")
	pf.StringVar(&flags.DBPath, "db", flags.DBPath, "Library database path")
	pf.StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory for exports")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFile, "log-file", "", "Also write logs to this file (rotated)")

	// Translation flags
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	pf.StringVar(&flags.OpenAIModel, "openai-model", "", "OpenAI chat model (default gpt-4o-mini)")
	pf.StringVar(&flags.GeminiModel, "gemini-model", "", "Gemini model (default gemini-2.0-flash)")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Do not cache translations")
	pf.BoolVar(&flags.SkipPronunciation, "skip-pronunciation", false, "Do not fill in missing pronunciations")
	pf.StringVar(&flags.LyricsAPI, "lyrics-api", "", "Lyrics API base URL (default https://api.lyrics.ovh/v1)")

	// Root-only flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the library to an archive directory and start fresh")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("library.path", pf.Lookup("db"))
	viper.BindPFlag("output.directory", pf.Lookup("output"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.file", pf.Lookup("log-file"))
	viper.BindPFlag("translation.provider", pf.Lookup("provider"))
	viper.BindPFlag("translation.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("translation.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("lyrics.api", pf.Lookup("lyrics-api"))
}
