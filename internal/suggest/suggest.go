// Package suggest recommends artists from a saved library, using the most
// translated artists and the most common lyric themes.
package suggest

import (
	"fmt"

	"codeberg.org/snonux/geet/internal/crossref"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/stats"
)

const (
	topArtistLimit        = 3
	topThemeLimit         = 5
	artistSuggestionLimit = 5
	themeSuggestionLimit  = 3
)

// Suggestion kinds
const (
	TypeArtist = "artist"
	TypeTheme  = "theme"
)

// Suggestion recommends one artist and says why
type Suggestion struct {
	Type   string `json:"type"`
	Artist string `json:"artist"`
	Theme  string `json:"theme,omitempty"`
	Reason string `json:"reason"`
}

// Suggestions is the full suggestion view for a library
type Suggestions struct {
	TopArtists []stats.ArtistCount `json:"topArtists"`
	Themes     []crossref.Theme    `json:"themes"`
	ByArtist   []Suggestion        `json:"byArtist"`
	ByTheme    []Suggestion        `json:"byTheme"`
}

// themeInfo describes a recognizable lyric theme
type themeInfo struct {
	Kind    string
	Artists []string
}

// relatedArtists maps an artist to others with a similar sound
var relatedArtists = map[string][]string{
	"Karan Aujla":      {"Sidhu Moose Wala", "AP Dhillon", "Shubh"},
	"Diljit Dosanjh":   {"Gurdas Maan", "Babbu Maan", "Amrinder Gill"},
	"Sidhu Moose Wala": {"Karan Aujla", "Khan Bhaini", "Bohemia"},
	"AP Dhillon":       {"Gurinder Gill", "Shinda Kahlon", "Karan Aujla"},
	"Gurdas Maan":      {"Hans Raj Hans", "Harbhajan Mann", "Diljit Dosanjh"},
	"Amrinder Gill":    {"Maninder Buttar", "Sharry Mann", "Jassi Gill"},
}

var themeArtists = map[string]themeInfo{
	"pyar":  {Kind: "Romantic", Artists: []string{"Amrinder Gill", "Jassi Gill"}},
	"yaari": {Kind: "Friendship", Artists: []string{"Sidhu Moose Wala", "Karan Aujla"}},
	"pind":  {Kind: "Village/Rural", Artists: []string{"Gurdas Maan", "Babbu Maan"}},
	"dil":   {Kind: "Emotional", Artists: []string{"Diljit Dosanjh", "Amrinder Gill"}},
}

// Build derives suggestions from songs. An empty library yields an empty
// result.
func Build(songs []song.Song) Suggestions {
	if len(songs) == 0 {
		return Suggestions{}
	}

	topArtists := stats.ArtistFrequency(songs)
	if len(topArtists) > topArtistLimit {
		topArtists = topArtists[:topArtistLimit]
	}

	themes := crossref.ExtractCommonThemes(songs)
	if len(themes) > topThemeLimit {
		themes = themes[:topThemeLimit]
	}

	return Suggestions{
		TopArtists: topArtists,
		Themes:     themes,
		ByArtist:   byArtist(topArtists),
		ByTheme:    byTheme(themes, topArtists),
	}
}

func byArtist(top []stats.ArtistCount) []Suggestion {
	var out []Suggestion
	for _, artist := range top {
		for _, related := range relatedArtists[artist.Name] {
			if isTopArtist(top, related) {
				continue
			}
			out = append(out, Suggestion{
				Type:   TypeArtist,
				Artist: related,
				Reason: fmt.Sprintf("Similar to %s", artist.Name),
			})
		}
	}
	return limit(out, artistSuggestionLimit)
}

func byTheme(themes []crossref.Theme, top []stats.ArtistCount) []Suggestion {
	var out []Suggestion
	for _, theme := range themes {
		info, ok := themeArtists[theme.Word]
		if !ok {
			continue
		}
		for _, artist := range info.Artists {
			if isTopArtist(top, artist) {
				continue
			}
			out = append(out, Suggestion{
				Type:   TypeTheme,
				Artist: artist,
				Theme:  info.Kind,
				Reason: fmt.Sprintf("You seem to enjoy %s songs", info.Kind),
			})
		}
	}
	return limit(out, themeSuggestionLimit)
}

func isTopArtist(top []stats.ArtistCount, name string) bool {
	for _, a := range top {
		if a.Name == name {
			return true
		}
	}
	return false
}

func limit(s []Suggestion, n int) []Suggestion {
	if len(s) > n {
		return s[:n]
	}
	return s
}
