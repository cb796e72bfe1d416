package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/geet/internal"
	"codeberg.org/snonux/geet/internal/anki"
	"codeberg.org/snonux/geet/internal/batch"
	"codeberg.org/snonux/geet/internal/cli"
	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/lyrics"
	"codeberg.org/snonux/geet/internal/phonetic"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/store"
	"codeberg.org/snonux/geet/internal/translation"
)

// LyricsFetcher looks up raw lyrics by artist and song name
type LyricsFetcher interface {
	Fetch(ctx context.Context, artist, songName string) (string, error)
}

// PronunciationFiller fills blank pronunciations in place
type PronunciationFiller interface {
	FillMissing(ctx context.Context, lines []song.Line) (int, error)
}

// Processor handles the main song processing logic
type Processor struct {
	flags      *cli.Flags
	library    *store.Store
	translator translation.Translator
	fetcher    LyricsFetcher
	phonetic   PronunciationFiller
}

// New creates a processor from its collaborators. fetcher and filler may be nil.
func New(flags *cli.Flags, library *store.Store, translator translation.Translator, fetcher LyricsFetcher, filler PronunciationFiller) *Processor {
	return &Processor{
		flags:      flags,
		library:    library,
		translator: translator,
		fetcher:    fetcher,
		phonetic:   filler,
	}
}

// NewProcessor opens the library and builds the configured collaborators
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	if err := os.MkdirAll(filepath.Dir(flags.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	library, err := store.Open(flags.DBPath)
	if err != nil {
		return nil, err
	}

	// A missing key only matters once something needs translating
	translator, err := translation.NewTranslator(ctx, cli.TranslationConfig(flags))
	if err != nil {
		logger.Warn("translation disabled", logger.Err(err))
		translator = nil
	}

	var filler PronunciationFiller
	if key := cli.GetOpenAIKey(); key != "" && !flags.SkipPronunciation {
		filler = phonetic.NewFetcher(key, "")
	}

	return New(flags, library, translator, lyrics.NewFetcher(flags.LyricsAPI), filler), nil
}

// Library returns the song library
func (p *Processor) Library() *store.Store {
	return p.library
}

// Translator returns the configured translator, or nil when none is available
func (p *Processor) Translator() translation.Translator {
	return p.translator
}

// Close closes the library
func (p *Processor) Close() error {
	return p.library.Close()
}

// ProcessText translates lyrics and saves them as a song
func (p *Processor) ProcessText(ctx context.Context, artist, title, text string) (song.Song, error) {
	if p.translator == nil {
		return song.Song{}, fmt.Errorf("no translation provider configured. Set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	fmt.Printf("  Translating with %s...\n", p.translator.Name())
	lines, err := p.translator.Translate(ctx, text)
	if err != nil {
		return song.Song{}, fmt.Errorf("translation failed: %w", err)
	}
	fmt.Printf("  Translated %d lines\n", len(lines))

	if p.phonetic != nil && !p.flags.SkipPronunciation {
		filled, err := p.phonetic.FillMissing(ctx, lines)
		if err != nil {
			// Don't fail the whole song if pronunciations fail
			fmt.Printf("  Warning: Failed to fill pronunciations: %v\n", err)
		} else if filled > 0 {
			fmt.Printf("  Added %d pronunciations\n", filled)
		}
	}

	saved, err := p.library.Save(ctx, song.Song{
		SongName: strings.TrimSpace(title),
		Artist:   strings.TrimSpace(artist),
		Lyrics:   lines,
	})
	if err != nil {
		return song.Song{}, err
	}

	fmt.Printf("  Saved as %s\n", saved.ID)
	return saved, nil
}

// ProcessSong fetches lyrics for a song, then translates and saves them
func (p *Processor) ProcessSong(ctx context.Context, artist, title string) (song.Song, error) {
	if p.fetcher == nil {
		return song.Song{}, fmt.Errorf("no lyrics source configured")
	}

	fmt.Printf("  Fetching lyrics...\n")
	text, err := p.fetcher.Fetch(ctx, artist, title)
	if err != nil {
		return song.Song{}, err
	}

	return p.ProcessText(ctx, artist, title, text)
}

// ProcessFile translates lyrics from an MP3 file's lyrics tag or from a
// plain text file. --artist and --title override the tag values; a text
// file's name is used as the title when none is given.
func (p *Processor) ProcessFile(ctx context.Context, path string) (song.Song, error) {
	artist, title := p.flags.Artist, p.flags.Title

	var text string
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		info, err := lyrics.ReadTagLyrics(path)
		if err != nil {
			return song.Song{}, err
		}
		text = info.Lyrics
		if artist == "" {
			artist = info.Artist
		}
		if title == "" {
			title = info.Title
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return song.Song{}, fmt.Errorf("failed to read lyrics file: %w", err)
		}
		text = string(data)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if artist == "" {
		artist = song.UnknownArtist
	}

	fmt.Printf("\nProcessing: %s - %s\n", title, artist)
	return p.ProcessText(ctx, artist, title, text)
}

// BatchSummary counts the outcome of a batch run
type BatchSummary struct {
	Total     int
	Processed int
	Skipped   int
	Errors    int
}

// ProcessBatch processes every "Artist = Song" line of a batch file. Songs
// already in the library are skipped unless --force is set; failures are
// reported and the batch continues.
func (p *Processor) ProcessBatch(ctx context.Context, path string) (BatchSummary, error) {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return BatchSummary{}, err
	}

	existing, err := p.library.List(ctx)
	if err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{Total: len(entries)}
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Printf("\nProcessing %d/%d: %s - %s\n", i+1, len(entries), entry.SongName, entry.Artist)

		if !p.flags.Force && inLibrary(existing, entry) {
			fmt.Printf("  ✓ Skipping - already in library\n")
			summary.Skipped++
			continue
		}

		if _, err := p.ProcessSong(ctx, entry.Artist, entry.SongName); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing '%s' (line %d): %v\n", entry, entry.Line, err)
			logger.Warn("batch entry failed", logger.String("entry", entry.String()), logger.Err(err))
			summary.Errors++
			continue
		}
		summary.Processed++
	}

	fmt.Printf("\n=== Batch Processing Summary ===\n")
	fmt.Printf("Total songs: %d\n", summary.Total)
	fmt.Printf("Processed: %d\n", summary.Processed)
	fmt.Printf("Skipped (already in library): %d\n", summary.Skipped)
	if summary.Errors > 0 {
		fmt.Printf("Errors: %d\n", summary.Errors)
	}
	fmt.Printf("================================\n")

	return summary, nil
}

func inLibrary(songs []song.Song, entry batch.SongEntry) bool {
	probe := song.Song{SongName: entry.SongName, Artist: entry.Artist}
	for _, s := range songs {
		if s.SameTrack(probe) {
			return true
		}
	}
	return false
}

// GenerateAnkiFile exports the library (or the given song IDs) as an Anki
// deck in the output directory and returns the file path.
func (p *Processor) GenerateAnkiFile(ctx context.Context, ids ...string) (string, error) {
	songs, err := p.selectSongs(ctx, ids)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := internal.SanitizeFilename(p.flags.DeckName)
	if base == "" {
		base = "geet"
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = filepath.Join(p.flags.OutputDir, base+".csv")
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: true,
	})
	if gen.AddSongs(songs) == 0 {
		return "", fmt.Errorf("no lyric lines to export")
	}

	if p.flags.AnkiCSV {
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		outputPath = filepath.Join(p.flags.OutputDir, base+".apkg")
		if err := gen.GenerateAPKG(outputPath, p.flags.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withPron, withContext := gen.Stats()
	fmt.Printf("  Generated %d cards (%d with pronunciation, %d with cultural notes)\n",
		total, withPron, withContext)

	return outputPath, nil
}

func (p *Processor) selectSongs(ctx context.Context, ids []string) ([]song.Song, error) {
	if len(ids) == 0 {
		return p.library.List(ctx)
	}

	songs := make([]song.Song, 0, len(ids))
	for _, id := range ids {
		s, err := p.library.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("song %s not found", id)
		}
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, nil
}
