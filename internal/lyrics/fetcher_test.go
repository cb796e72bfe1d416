package lyrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lyrics":"tere naal\r\ndil di gall\n"}`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL + "/v1/")
	text, err := fetcher.Fetch(context.Background(), "Diljit Dosanjh", "Lover")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if text != "tere naal\ndil di gall" {
		t.Errorf("Unexpected lyrics %q", text)
	}
	if gotPath != "/v1/Diljit%20Dosanjh/Lover" {
		t.Errorf("Unexpected request path %s", gotPath)
	}
}

func TestFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"not found", http.StatusNotFound, `{"error":"No lyrics found"}`, ErrNotFound, ""},
		{"server error", http.StatusInternalServerError, "", nil, "failed to fetch lyrics: 500"},
		{"missing field", http.StatusOK, `{"error":""}`, nil, "no lyrics found in the response"},
		{"bad json", http.StatusOK, `<html>`, nil, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewFetcher(srv.URL).Fetch(context.Background(), "Artist", "Song")
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestFetcher_MissingArgs(t *testing.T) {
	fetcher := NewFetcher("http://127.0.0.1:0")

	for _, args := range [][2]string{{"", "Song"}, {"Artist", " "}, {"", ""}} {
		if _, err := fetcher.Fetch(context.Background(), args[0], args[1]); !errors.Is(err, ErrMissingArgs) {
			t.Errorf("Fetch(%q, %q) = %v, want ErrMissingArgs", args[0], args[1], err)
		}
	}
}

func TestNewFetcher_DefaultBaseURL(t *testing.T) {
	if got := NewFetcher("").baseURL; got != DefaultBaseURL {
		t.Errorf("Expected %s, got %s", DefaultBaseURL, got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rl.wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	// The third request would block for a minute
	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := rl.wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
