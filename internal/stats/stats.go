package stats

import (
	"math"
	"sort"
	"time"

	"codeberg.org/snonux/geet/internal/song"
)

// ArtistCount is the number of saved songs by one artist
type ArtistCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes a song collection
type Stats struct {
	TotalSongs           int          `json:"totalSongs"`
	TotalLines           int          `json:"totalLines"`
	MostTranslatedArtist *ArtistCount `json:"mostTranslatedArtist"`
	ArtistCount          int          `json:"artistCount"`
	ThisWeek             int          `json:"thisWeek"`
	ThisMonth            int          `json:"thisMonth"`
	AverageLinesPerSong  int          `json:"averageLinesPerSong"`
}

// ArtistFrequency counts songs per artist, most frequent first. Artists
// with equal counts keep the order in which they first appear.
func ArtistFrequency(songs []song.Song) []ArtistCount {
	index := make(map[string]int)
	var counts []ArtistCount

	for _, s := range songs {
		name := s.ArtistName()
		if i, ok := index[name]; ok {
			counts[i].Count++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, ArtistCount{Name: name, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return counts
}

// Calculate summarizes songs relative to the current time
func Calculate(songs []song.Song) Stats {
	return CalculateAt(songs, time.Now())
}

// CalculateAt summarizes songs relative to now
func CalculateAt(songs []song.Song, now time.Time) Stats {
	if len(songs) == 0 {
		return Stats{}
	}

	totalLines := 0
	for _, s := range songs {
		totalLines += s.LineCount()
	}

	artists := ArtistFrequency(songs)
	top := artists[0]

	return Stats{
		TotalSongs:           len(songs),
		TotalLines:           totalLines,
		MostTranslatedArtist: &top,
		ArtistCount:          len(artists),
		ThisWeek:             len(SongsInPeriodAt(songs, PeriodWeek, now)),
		ThisMonth:            len(SongsInPeriodAt(songs, PeriodMonth, now)),
		AverageLinesPerSong:  int(math.Round(float64(totalLines) / float64(len(songs)))),
	}
}
