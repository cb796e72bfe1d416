package phonetic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"codeberg.org/snonux/geet/internal/song"
)

func completionServer(t *testing.T, reply string) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewFetcher(t *testing.T) {
	fetcher := NewFetcher("test-api-key", "")

	if fetcher.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", fetcher.apiKey)
	}
	if fetcher.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestPronounce_NoAPIKey(t *testing.T) {
	fetcher := NewFetcher("", "")

	_, err := fetcher.Pronounce(context.Background(), "ਪਿੰਡ")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if err.Error() != "OpenAI API key not configured" {
		t.Errorf("Expected 'OpenAI API key not configured' error, got: %v", err)
	}
}

func TestPronounce(t *testing.T) {
	srv, _ := completionServer(t, ` "pind" `)
	fetcher := NewFetcher("test-key", srv.URL+"/v1")

	got, err := fetcher.Pronounce(context.Background(), "ਪਿੰਡ")
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got != "pind" {
		t.Errorf("Expected 'pind', got %q", got)
	}
}

func TestNeedsPronunciation(t *testing.T) {
	tests := []struct {
		name string
		line song.Line
		want bool
	}{
		{"gurmukhi", song.Line{Punjabi: "ਤੇਰੇ ਨਾਲ"}, true},
		{"devanagari", song.Line{Punjabi: "तेरे नाल"}, true},
		{"transliterated", song.Line{Punjabi: "tere naal"}, false},
		{"already filled", song.Line{Punjabi: "ਤੇਰੇ ਨਾਲ", Pronunciation: "tere naal"}, false},
		{"blank", song.Line{Punjabi: "  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsPronunciation(tt.line); got != tt.want {
				t.Errorf("NeedsPronunciation(%+v) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFillMissing(t *testing.T) {
	srv, calls := completionServer(t, "tere naal")
	fetcher := NewFetcher("test-key", srv.URL+"/v1")

	lines := []song.Line{
		{Punjabi: "ਤੇਰੇ ਨਾਲ"},
		{Punjabi: "dil di gall"},
		{Punjabi: "ਪਿੰਡ", Pronunciation: "pind"},
	}

	filled, err := fetcher.FillMissing(context.Background(), lines)
	if err != nil {
		t.Fatalf("FillMissing failed: %v", err)
	}
	if filled != 1 || atomic.LoadInt32(calls) != 1 {
		t.Errorf("Expected 1 line filled with 1 call, got %d filled and %d calls", filled, *calls)
	}
	if lines[0].Pronunciation != "tere naal" {
		t.Errorf("Expected pronunciation to be set, got %q", lines[0].Pronunciation)
	}
	if lines[1].Pronunciation != "" || lines[2].Pronunciation != "pind" {
		t.Errorf("Unexpected changes: %+v", lines)
	}
}

func TestFillMissing_NoAPIKey(t *testing.T) {
	fetcher := NewFetcher("", "")
	lines := []song.Line{{Punjabi: "ਤੇਰੇ ਨਾਲ"}}

	filled, err := fetcher.FillMissing(context.Background(), lines)
	if !errors.Is(err, ErrNoAPIKey) || filled != 0 {
		t.Errorf("Expected ErrNoAPIKey and 0 filled, got %v and %d", err, filled)
	}
}

func TestPronounce_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	got, err := NewFetcher(apiKey, "").Pronounce(context.Background(), "ਤੇਰੇ ਨਾਲ ਪਿਆਰ")
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	t.Logf("Pronunciation: %s", got)
}
