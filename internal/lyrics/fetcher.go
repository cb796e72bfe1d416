package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the public lyrics.ovh endpoint
	DefaultBaseURL = "https://api.lyrics.ovh/v1"

	fetchTimeout      = 15 * time.Second
	requestsPerMinute = 30
)

// ErrNotFound is returned when no lyrics exist for a song
var ErrNotFound = errors.New("lyrics not found for this song, try manual entry")

// ErrMissingArgs is returned when artist or song name is blank
var ErrMissingArgs = errors.New("artist and song name are required")

// rateLimiter allows at most requestsPerMinute calls in any sliding minute
type rateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	requests          []time.Time
}

func newRateLimiter(rpm int) *rateLimiter {
	return &rateLimiter{
		requestsPerMinute: rpm,
		requests:          make([]time.Time, 0, rpm),
	}
}

func (rl *rateLimiter) wait(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)
	i := 0
	for i < len(rl.requests) && rl.requests[i].Before(cutoff) {
		i++
	}
	rl.requests = rl.requests[i:]

	if len(rl.requests) >= rl.requestsPerMinute {
		delay := rl.requests[0].Add(time.Minute).Sub(now)
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
			now = time.Now()
		}
		rl.requests = rl.requests[1:]
	}

	rl.requests = append(rl.requests, now)
	return nil
}

// Fetcher looks up lyrics by artist and song name
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  *rateLimiter
}

// NewFetcher creates a fetcher for baseURL; empty uses DefaultBaseURL
func NewFetcher(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		rateLimit: newRateLimiter(requestsPerMinute),
	}
}

type lyricsResponse struct {
	Lyrics *string `json:"lyrics"`
	Error  string  `json:"error"`
}

// Fetch returns the raw lyrics text for a song
func (f *Fetcher) Fetch(ctx context.Context, artist, songName string) (string, error) {
	artist = strings.TrimSpace(artist)
	songName = strings.TrimSpace(songName)
	if artist == "" || songName == "" {
		return "", ErrMissingArgs
	}

	if err := f.rateLimit.wait(ctx); err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/%s/%s", f.baseURL, url.PathEscape(artist), url.PathEscape(songName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch lyrics: %s", resp.Status)
	}

	var body lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Lyrics == nil {
		return "", fmt.Errorf("no lyrics found in the response")
	}

	return strings.TrimSpace(strings.ReplaceAll(*body.Lyrics, "\r\n", "\n")), nil
}
