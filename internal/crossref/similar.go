package crossref

import (
	"sort"
	"strings"

	"codeberg.org/snonux/geet/internal/song"
)

// DefaultMinMatchCount is the number of shared phrases needed before a song
// counts as similar
const DefaultMinMatchCount = 2

// Match is a song sharing phrases with the target song
type Match struct {
	Song       song.Song `json:"song"`
	MatchCount int       `json:"matchCount"`
	Phrases    []string  `json:"phrases"`
}

// PhraseHit is a lyric line containing a searched phrase
type PhraseHit struct {
	Song      song.Song `json:"song"`
	LineIndex int       `json:"lineIndex"`
	Line      song.Line `json:"line"`
}

// FindSimilarSongs returns the songs sharing at least minMatchCount unique
// phrases with target, highest match count first. The target is skipped by
// ID. Songs with equal counts keep their collection order.
func FindSimilarSongs(target *song.Song, songs []song.Song, minMatchCount int) []Match {
	if target == nil || len(songs) == 0 {
		return nil
	}

	targetPhrases := phraseSet(*target)

	var matches []Match
	for _, candidate := range songs {
		if candidate.ID == target.ID {
			continue
		}

		shared := sharedPhrases(candidate, targetPhrases)
		if len(shared) >= minMatchCount {
			matches = append(matches, Match{
				Song:       candidate,
				MatchCount: len(shared),
				Phrases:    shared,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchCount > matches[j].MatchCount
	})

	return matches
}

// FindSongsWithPhrase returns every line whose normalized text contains the
// normalized phrase. Matching is by substring, not word boundary.
func FindSongsWithPhrase(phrase string, songs []song.Song) []PhraseHit {
	needle := Normalize(phrase)
	if needle == "" {
		return nil
	}

	var hits []PhraseHit
	for _, s := range songs {
		for i, line := range s.Lyrics {
			if !line.HasSource() {
				continue
			}
			if strings.Contains(Normalize(line.Punjabi), needle) {
				hits = append(hits, PhraseHit{Song: s, LineIndex: i, Line: line})
			}
		}
	}

	return hits
}

// phraseSet collects the unique phrases of all lines with source text
func phraseSet(s song.Song) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range s.Lyrics {
		if !line.HasSource() {
			continue
		}
		for _, p := range ExtractPhrases(line.Punjabi) {
			set[p] = struct{}{}
		}
	}
	return set
}

// sharedPhrases returns the candidate's phrases present in want, once each,
// in the order they first appear in the candidate
func sharedPhrases(candidate song.Song, want map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var shared []string

	for _, line := range candidate.Lyrics {
		if !line.HasSource() {
			continue
		}
		for _, p := range ExtractPhrases(line.Punjabi) {
			if _, ok := want[p]; !ok {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			shared = append(shared, p)
		}
	}

	return shared
}
