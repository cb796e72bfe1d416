package translation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/geet/internal/song"
)

// ErrEmptyLyrics is returned when there is nothing to translate
var ErrEmptyLyrics = errors.New("lyrics are required")

// ErrInvalidFormat is returned when the provider response lacks a translations array
var ErrInvalidFormat = errors.New("invalid translation format received")

const promptTemplate = `Translate these Punjabi song lyrics line by line into Hindi and English.
The lyrics may be written in Gurmukhi, in Devanagari or in English transliteration; always read them as Punjabi.
Keep the poetic tone and explain colloquial or regional expressions.

For every line give:
1. a Hindi translation
2. an English translation
3. cultural context: idioms, metaphors, cultural references and regional slang
4. a pronunciation guide in English transliteration when the line is in Gurmukhi or Devanagari

Reply with JSON only, in exactly this shape:
{
  "translations": [
    {
      "punjabi": "original line",
      "hindi": "Hindi translation",
      "english": "English translation",
      "context": "cultural context",
      "pronunciation": "English transliteration"
    }
  ]
}

Punjabi lyrics:
%s`

// ValidateLyrics rejects blank input
func ValidateLyrics(lyrics string) error {
	if strings.TrimSpace(lyrics) == "" {
		return ErrEmptyLyrics
	}
	return nil
}

// BuildPrompt returns the translation request for lyrics
func BuildPrompt(lyrics string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(lyrics))
}

// ParseResponse extracts the translated lines from a provider reply. The
// reply may wrap the JSON object in prose or code fences.
func ParseResponse(text string) ([]song.Line, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("could not parse translation response")
	}

	var payload struct {
		Translations json.RawMessage `json:"translations"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("could not parse translation response: %w", err)
	}

	raw := bytes.TrimSpace(payload.Translations)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidFormat
	}

	lines := []song.Line{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return lines, nil
}
