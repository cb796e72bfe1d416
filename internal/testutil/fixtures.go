package testutil

import (
	"time"

	"codeberg.org/snonux/geet/internal/song"
)

// NewSong builds a song whose lines carry only Punjabi text
func NewSong(id, name, artist string, punjabi ...string) song.Song {
	s := song.Song{
		ID:       id,
		SongName: name,
		Artist:   artist,
		SavedAt:  time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, text := range punjabi {
		s.Lyrics = append(s.Lyrics, song.Line{
			Punjabi: text,
			English: "translation of " + text,
		})
	}
	return s
}

// SavedAgo returns a copy of s saved d before now
func SavedAgo(s song.Song, now time.Time, d time.Duration) song.Song {
	s.SavedAt = now.Add(-d)
	return s
}

// SampleLibrary returns a small library of three songs by two artists
func SampleLibrary() []song.Song {
	return []song.Song{
		NewSong("song-a", "Pyar", "X", "dil naal pyar", "tera naal pyar hai", "yaari vich pyar"),
		NewSong("song-b", "Dil", "X", "dil naal pyar"),
		NewSong("song-c", "Pind", "Y", "pind di yaad", "yaari vich pind"),
	}
}
