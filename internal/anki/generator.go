package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/geet/internal/song"
)

// Card represents a single lyric line flashcard
type Card struct {
	Punjabi       string // The original lyric line
	Pronunciation string // Latin transliteration
	English       string
	Hindi         string
	Context       string // Cultural notes
	Source        string // "Song - Artist"
	Tag           string // Anki tag derived from the song name
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddSong adds one card per lyric line that has Punjabi text and returns
// the number of cards added.
func (g *Generator) AddSong(s song.Song) int {
	source := fmt.Sprintf("%s - %s", s.SongName, s.ArtistName())
	tag := songTag(s.SongName)

	added := 0
	for _, line := range s.Lyrics {
		if !line.HasSource() {
			continue
		}
		g.AddCard(Card{
			Punjabi:       strings.TrimSpace(line.Punjabi),
			Pronunciation: line.Pronunciation,
			English:       line.English,
			Hindi:         line.Hindi,
			Context:       line.Context,
			Source:        source,
			Tag:           tag,
		})
		added++
	}
	return added
}

// AddSongs adds the cards of every song and returns the total added
func (g *Generator) AddSongs(songs []song.Song) int {
	total := 0
	for _, s := range songs {
		total += g.AddSong(s)
	}
	return total
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Punjabi", "Pronunciation", "English", "Hindi", "Context", "Source", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Punjabi,
			card.Pronunciation,
			card.English,
			card.Hindi,
			card.Context,
			card.Source,
			card.Tag,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG creates a .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withPronunciation, withContext int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.Pronunciation != "" {
			withPronunciation++
		}
		if card.Context != "" {
			withContext++
		}
	}

	return
}

// songTag turns a song name into a single Anki tag
func songTag(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return "geet"
	}
	return "geet::" + strings.Join(fields, "_")
}
