package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/geet/internal/song"
)

// MockTranslator mocks a lyrics translation provider
type MockTranslator struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

// Translate returns one line per non-blank input line
func (m *MockTranslator) Translate(ctx context.Context, lyrics string) ([]song.Line, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, lyrics)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	var lines []song.Line
	for _, text := range strings.Split(lyrics, "\n") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, song.Line{
			Punjabi: text,
			Hindi:   fmt.Sprintf("hindi: %s", text),
			English: fmt.Sprintf("english: %s", text),
		})
	}
	return lines, nil
}

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// CallCount returns the number of Translate calls
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
