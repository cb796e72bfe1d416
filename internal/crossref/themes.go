package crossref

import (
	"sort"
	"unicode/utf8"

	"codeberg.org/snonux/geet/internal/song"
)

const (
	themeLimit    = 10 // number of themes returned
	minThemeRunes = 3  // shorter tokens are never themes
)

// Theme is a frequent word across a song collection
type Theme struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// stopwords are Punjabi function words, transliterated and in Gurmukhi
var stopwords = map[string]struct{}{
	"te": {}, "di": {}, "da": {}, "de": {}, "nu": {}, "ne": {},
	"hai": {}, "hoon": {}, "si": {}, "ho": {}, "ke": {},
	"tera": {}, "mera": {},
	"ਤੇ": {}, "ਦੀ": {}, "ਦਾ": {}, "ਦੇ": {}, "ਨੂੰ": {}, "ਨੇ": {}, "ਹੈ": {},
}

func isStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// ExtractCommonThemes returns the ten most frequent words of at least three
// characters that are not stop words. Equal counts are ordered by the
// first time the word was seen.
func ExtractCommonThemes(songs []song.Song) []Theme {
	counts := make(map[string]int)
	var order []string

	for _, s := range songs {
		for _, line := range s.Lyrics {
			if !line.HasSource() {
				continue
			}
			for _, word := range Tokenize(line.Punjabi) {
				if utf8.RuneCountInString(word) < minThemeRunes || isStopword(word) {
					continue
				}
				if counts[word] == 0 {
					order = append(order, word)
				}
				counts[word]++
			}
		}
	}

	themes := make([]Theme, 0, len(order))
	for _, word := range order {
		themes = append(themes, Theme{Word: word, Count: counts[word]})
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Count > themes[j].Count
	})

	if len(themes) > themeLimit {
		themes = themes[:themeLimit]
	}
	return themes
}
