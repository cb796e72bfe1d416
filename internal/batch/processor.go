package batch

import (
	"fmt"
	"os"
	"strings"
)

// SongEntry is one song request read from a batch file
type SongEntry struct {
	Artist   string
	SongName string
	Line     int // 1-based line number in the batch file
}

// String returns the entry as written in a batch file
func (e SongEntry) String() string {
	return fmt.Sprintf("%s = %s", e.Artist, e.SongName)
}

// ReadBatchFile reads song requests from a file, one per line:
//
//	Diljit Dosanjh = Lover
//	# comments and blank lines are skipped
func ReadBatchFile(filename string) ([]SongEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(string(content))
}

// ParseBatch parses batch file content. Lines without '=' or with an empty
// artist or song name are rejected with their line number.
func ParseBatch(content string) ([]SongEntry, error) {
	var entries []SongEntry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		artist, songName, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 'Artist = Song Name', got %q", i+1, line)
		}

		artist = strings.TrimSpace(artist)
		songName = strings.TrimSpace(songName)
		if artist == "" || songName == "" {
			return nil, fmt.Errorf("line %d: artist and song name are required", i+1)
		}

		entries = append(entries, SongEntry{
			Artist:   artist,
			SongName: songName,
			Line:     i + 1,
		})
	}

	return entries, nil
}
