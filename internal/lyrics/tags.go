package lyrics

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
)

// TagInfo holds what ReadTagLyrics found in an MP3 file
type TagInfo struct {
	Title  string
	Artist string
	Lyrics string
}

// ReadTagLyrics reads title, artist and the unsynchronised lyrics frame of
// an MP3 file. Files without a non-empty lyrics frame return ErrNotFound.
func ReadTagLyrics(path string) (*TagInfo, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("id3 open error: %w", err)
	}
	defer tag.Close()

	info := &TagInfo{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
	}

	for _, frame := range tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription")) {
		uslf, ok := frame.(id3v2.UnsynchronisedLyricsFrame)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(uslf.Lyrics); text != "" {
			info.Lyrics = text
			return info, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
}
