package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirName         = "archive"
	timestampFormat = "20060102-150405"
)

// archivePath returns a free path in the archive directory next to
// parentDir for a name with the given extension.
func archivePath(parentDir, base, ext string, now time.Time) (string, error) {
	archiveDir := filepath.Join(parentDir, dirName)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format(timestampFormat), ext))
	if _, err := os.Stat(path); err == nil {
		// Add microseconds to make it unique
		path = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405.000000"), ext))
	}
	return path, nil
}

// ArchiveLibrary moves the library database into an archive directory next
// to it, so the next run starts with an empty library. It returns the
// archived path.
func ArchiveLibrary(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("library does not exist: %s", dbPath)
	}

	ext := filepath.Ext(dbPath)
	base := strings.TrimSuffix(filepath.Base(dbPath), ext)

	target, err := archivePath(filepath.Dir(dbPath), base, ext, time.Now())
	if err != nil {
		return "", err
	}

	if err := os.Rename(dbPath, target); err != nil {
		return "", fmt.Errorf("failed to archive library: %w", err)
	}

	fmt.Printf("Library archived to: %s\n", target)
	return target, nil
}

// WriteSnapshot stores an exported library as a timestamped JSON file in
// the archive directory below dir and returns its path.
func WriteSnapshot(dir string, data []byte) (string, error) {
	target, err := archivePath(dir, "library", ".json", time.Now())
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	return target, nil
}
