package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"codeberg.org/snonux/geet/internal/cli"
	"codeberg.org/snonux/geet/internal/crossref"
	"codeberg.org/snonux/geet/internal/lyrics"
	"codeberg.org/snonux/geet/internal/models"
	"codeberg.org/snonux/geet/internal/processor"
	"codeberg.org/snonux/geet/internal/server"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/stats"
	"codeberg.org/snonux/geet/internal/suggest"
)

func addCommands(root *cobra.Command, flags *cli.Flags) {
	root.AddCommand(
		translateCmd(flags),
		fetchCmd(flags),
		fileCmd(flags),
		batchCmd(flags),
		listCmd(flags),
		showCmd(flags),
		deleteCmd(flags),
		exportCmd(flags),
		importCmd(flags),
		similarCmd(flags),
		searchCmd(flags),
		themesCmd(flags),
		statsCmd(flags),
		timelineCmd(flags),
		calendarCmd(flags),
		suggestCmd(flags),
		ankiCmd(flags),
		serveCmd(flags),
		modelsCmd(),
	)
}

func addSongFlags(fs *pflag.FlagSet, flags *cli.Flags) {
	fs.StringVar(&flags.Artist, "artist", "", "Artist name")
	fs.StringVar(&flags.Title, "title", "", "Song name")
}

// withProcessor opens the library for the duration of fn
func withProcessor(cmd *cobra.Command, flags *cli.Flags, fn func(p *processor.Processor) error) error {
	p, err := processor.NewProcessor(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}

func translateCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [lyrics-file]",
		Short: "Translate lyrics from a file or stdin and save them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.Title) == "" {
				return fmt.Errorf("--title is required")
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open lyrics file: %w", err)
				}
				defer f.Close()
				r = f
			}
			text, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read lyrics: %w", err)
			}

			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				artist := flags.Artist
				if artist == "" {
					artist = song.UnknownArtist
				}
				_, err := p.ProcessText(cmd.Context(), artist, flags.Title, string(text))
				return err
			})
		},
	}
	addSongFlags(cmd.Flags(), flags)
	return cmd
}

func fetchCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <artist> <song>",
		Short: "Fetch lyrics online, translate and save them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				fmt.Printf("\nProcessing: %s - %s\n", args[1], args[0])
				_, err := p.ProcessSong(cmd.Context(), args[0], args[1])
				return err
			})
		},
	}
}

func fileCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Translate lyrics from a text file or an MP3 lyrics tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				_, err := p.ProcessFile(cmd.Context(), args[0])
				return err
			})
		},
	}
	addSongFlags(cmd.Flags(), flags)
	return cmd
}

func batchCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: `Process a file of "Artist = Song Name" lines`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				summary, err := p.ProcessBatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if summary.Errors > 0 && summary.Processed == 0 && summary.Skipped == 0 {
					return fmt.Errorf("all %d songs failed", summary.Errors)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&flags.Force, "force", false, "Process songs that are already in the library")
	return cmd
}

func listCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the songs in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printSongs(cmd.OutOrStdout(), songs)
				return nil
			})
		},
	}
}

func showCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <song-id>",
		Short: "Show a saved translation line by line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				s, err := p.Library().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSong(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func deleteCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <song-id>",
		Short: "Delete a song from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				if err := p.Library().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func exportCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the library as JSON",
		Long:  "Export the library as JSON. Without a file argument the export is written to the output directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flags.OutputDir, fmt.Sprintf("punjabi-lyrics-%s.json", time.Now().Format("2006-01-02")))
			if len(args) == 1 {
				path = args[0]
			}

			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()

				if err := p.Library().Export(cmd.Context(), f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Library exported to: %s\n", path)
				return nil
			})
		},
	}
}

func importCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON export into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				total, err := p.Library().Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported. Library now holds %d songs\n", total)
				return nil
			})
		},
	}
}

func similarCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <song-id>",
		Short: "Find songs that share phrases with a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.MinMatches < 1 {
				return fmt.Errorf("--min must be at least 1")
			}
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				target, err := p.Library().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printMatches(cmd.OutOrStdout(), crossref.FindSimilarSongs(&target, songs, flags.MinMatches))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&flags.MinMatches, "min", flags.MinMatches, "Minimum number of shared phrases")
	return cmd
}

func searchCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <phrase>",
		Short: "Find every saved line containing a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase := strings.Join(args, " ")
			if crossref.Normalize(phrase) == "" {
				return fmt.Errorf("phrase is required")
			}
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printHits(cmd.OutOrStdout(), crossref.FindSongsWithPhrase(phrase, songs))
				return nil
			})
		},
	}
}

func themesCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "Show the most common words across the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printThemes(cmd.OutOrStdout(), crossref.ExtractCommonThemes(songs))
				return nil
			})
		},
	}
}

func statsCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), stats.Calculate(songs), stats.ArtistFrequency(songs))
				return nil
			})
		},
	}
}

func timelineCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List songs saved within a period, grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				period := stats.ParsePeriod(flags.Period)
				printTimeline(cmd.OutOrStdout(), period, stats.SongsInPeriod(songs, period))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&flags.Period, "period", flags.Period, "Period: today, week, month, 3months or all")
	return cmd
}

func calendarCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show songs saved per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Months < 1 || flags.Months > stats.MaxCalendarMonths {
				return fmt.Errorf("--months must be between 1 and %d", stats.MaxCalendarMonths)
			}
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printCalendar(cmd.OutOrStdout(), stats.ActivityCalendar(songs, flags.Months))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&flags.Months, "months", flags.Months, "Number of months to show")
	return cmd
}

func suggestCmd(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest artists to explore next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				songs, err := p.Library().List(cmd.Context())
				if err != nil {
					return err
				}
				printSuggestions(cmd.OutOrStdout(), suggest.Build(songs))
				return nil
			})
		},
	}
}

func ankiCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anki [song-id...]",
		Short: "Export song lines as an Anki deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				fmt.Printf("\nGenerating Anki import file...\n")
				path, err := p.GenerateAnkiFile(cmd.Context(), args...)
				if err != nil {
					return err
				}
				fmt.Printf("Anki file created: %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&flags.AnkiCSV, "csv", false, "Write a CSV file instead of an APKG package")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Name of the Anki deck")
	return cmd
}

func serveCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(p *processor.Processor) error {
				srv := server.New(p.Library(), p.Translator(), lyrics.NewFetcher(flags.LyricsAPI), cli.RequestTimeout())
				fmt.Printf("Listening on http://%s/api\n", flags.Listen)
				return srv.ListenAndServe(cmd.Context(), flags.Listen)
			})
		},
	}
	cmd.Flags().StringVar(&flags.Listen, "listen", flags.Listen, "Address to listen on")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available OpenAI chat models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return models.NewLister(cli.GetOpenAIKey(), "").ListAvailableModels(cmd.Context())
		},
	}
}
