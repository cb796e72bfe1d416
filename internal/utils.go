package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSongID creates a unique ID for a song record
// Format: song-epochMillis-uuid[:8]
func GenerateSongID() string {
	epochMillis := time.Now().UnixMilli()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("song-%d-%s", epochMillis, suffix)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is alphanumeric, including Gurmukhi and
// Devanagari letters and digits
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || (r >= 0x0A00 && r <= 0x0A7F) ||
		(r >= 0x0900 && r <= 0x097F)
}
