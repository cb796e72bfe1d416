package song

import (
	"fmt"
	"strings"
	"time"
)

// UnknownArtist is reported for songs saved without an artist.
const UnknownArtist = "Unknown"

// Line is one translated lyric line, in song order
type Line struct {
	Punjabi       string `json:"punjabi"`
	Hindi         string `json:"hindi"`
	English       string `json:"english"`
	Context       string `json:"context"`
	Pronunciation string `json:"pronunciation"`
}

// HasSource reports whether the line carries source text for indexing
func (l Line) HasSource() bool {
	return l.Punjabi != ""
}

// Song is a saved translation. ID is assigned once at first save.
type Song struct {
	ID       string    `json:"id"`
	SongName string    `json:"songName"`
	Artist   string    `json:"artist"`
	Lyrics   []Line    `json:"lyrics"`
	SavedAt  time.Time `json:"savedAt"`
}

// LineCount returns the number of lyric lines, zero when lyrics are missing
func (s Song) LineCount() int {
	return len(s.Lyrics)
}

// ArtistName returns the artist or UnknownArtist when none was recorded
func (s Song) ArtistName() string {
	if s.Artist == "" {
		return UnknownArtist
	}
	return s.Artist
}

// SameTrack reports whether both songs have the same name and artist,
// ignoring case
func (s Song) SameTrack(other Song) bool {
	return strings.EqualFold(s.SongName, other.SongName) &&
		strings.EqualFold(s.Artist, other.Artist)
}

// Validate checks the fields required before a song can be saved
func Validate(s Song) error {
	if strings.TrimSpace(s.SongName) == "" {
		return fmt.Errorf("song name is required")
	}
	if strings.TrimSpace(s.Artist) == "" {
		return fmt.Errorf("artist is required")
	}
	return nil
}
