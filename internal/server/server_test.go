package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/geet/internal/crossref"
	"codeberg.org/snonux/geet/internal/lyrics"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/stats"
	"codeberg.org/snonux/geet/internal/store"
	"codeberg.org/snonux/geet/internal/suggest"
	"codeberg.org/snonux/geet/internal/testutil"
	"codeberg.org/snonux/geet/internal/translation"
)

var testNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, artist, songName string) (string, error) {
	if artist == "X" && songName == "Pyar" {
		return "dil naal pyar", nil
	}
	return "", lyrics.ErrNotFound
}

type failingTranslator struct{ err error }

func (f failingTranslator) Name() string { return "failing" }

func (f failingTranslator) Translate(context.Context, string) ([]song.Line, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, translator translation.Translator, songs ...song.Song) (*Server, *store.Store) {
	t.Helper()

	library, err := store.Open(testutil.TempDBPath(t))
	if err != nil {
		t.Fatalf("Failed to open library: %v", err)
	}
	t.Cleanup(func() { library.Close() })

	// Save in reverse so List returns songs in the given order
	for i := len(songs) - 1; i >= 0; i-- {
		if _, err := library.Save(context.Background(), songs[i]); err != nil {
			t.Fatalf("Failed to save song: %v", err)
		}
	}

	srv := New(library, translator, stubFetcher{}, time.Minute)
	srv.now = func() time.Time { return testNow }
	return srv, library
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decode(t, rec, &resp)
	return resp.Error
}

func TestTranslate(t *testing.T) {
	srv, _ := newTestServer(t, &testutil.MockTranslator{})

	rec := do(t, srv, http.MethodPost, "/api/translate", `{"lyrics":"tere naal\ndil di gall"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp translateResponse
	decode(t, rec, &resp)
	if len(resp.Translations) != 2 || resp.Translations[1].English != "english: dil di gall" {
		t.Errorf("Unexpected translations: %+v", resp.Translations)
	}
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		translator translation.Translator
		body       string
		wantStatus int
		wantError  string
	}{
		{"blank lyrics", &testutil.MockTranslator{}, `{"lyrics":"  "}`, http.StatusBadRequest, "lyrics are required"},
		{"bad json", &testutil.MockTranslator{}, `{`, http.StatusBadRequest, "invalid request body"},
		{"no provider", nil, `{"lyrics":"pind"}`, http.StatusServiceUnavailable, "no translation provider"},
		{"provider error", failingTranslator{errors.New("boom")}, `{"lyrics":"pind"}`, http.StatusBadGateway, "boom"},
		{"breaker open", failingTranslator{translation.ErrUnavailable}, `{"lyrics":"pind"}`, http.StatusServiceUnavailable, "temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.translator)
			rec := do(t, srv, http.MethodPost, "/api/translate", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if msg := errorMessage(t, rec); !strings.Contains(msg, tt.wantError) {
				t.Errorf("Expected error containing %q, got %q", tt.wantError, msg)
			}
		})
	}
}

func TestLyrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/lyrics/X/Pyar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["lyrics"] != "dil naal pyar" {
		t.Errorf("Unexpected lyrics %q", resp["lyrics"])
	}

	if rec := do(t, srv, http.MethodGet, "/api/lyrics/X/Missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestSongsCRUD(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/songs", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("Expected empty array, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/api/songs", `{"songName":"Lover","artist":"Diljit","lyrics":[{"punjabi":"tere naal"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved song.Song
	decode(t, rec, &saved)
	if saved.ID == "" || saved.SavedAt.IsZero() {
		t.Errorf("Expected ID and SavedAt to be assigned, got %+v", saved)
	}

	rec = do(t, srv, http.MethodGet, "/api/songs/"+saved.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got song.Song
	decode(t, rec, &got)
	if got.SongName != "Lover" || got.LineCount() != 1 {
		t.Errorf("Unexpected song %+v", got)
	}

	if rec := do(t, srv, http.MethodDelete, "/api/songs/"+saved.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/songs/"+saved.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/songs/"+saved.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting twice, got %d", rec.Code)
	}
}

func TestSaveSong_Validation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/songs", `{"artist":"Diljit"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "song name is required" {
		t.Errorf("Unexpected error %q", msg)
	}
}

func TestSimilar(t *testing.T) {
	srv, _ := newTestServer(t, nil, testutil.SampleLibrary()...)

	rec := do(t, srv, http.MethodGet, "/api/songs/song-a/similar?min=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var matches []crossref.Match
	decode(t, rec, &matches)
	want := crossref.FindSimilarSongs(&testutil.SampleLibrary()[0], testutil.SampleLibrary(), 1)
	if len(matches) != len(want) {
		t.Fatalf("Expected %d matches, got %d", len(want), len(matches))
	}
	for i := range want {
		if matches[i].Song.ID != want[i].Song.ID || matches[i].MatchCount != want[i].MatchCount {
			t.Errorf("Match %d = %s/%d, want %s/%d", i, matches[i].Song.ID, matches[i].MatchCount, want[i].Song.ID, want[i].MatchCount)
		}
	}

	if rec := do(t, srv, http.MethodGet, "/api/songs/song-a/similar?min=zero", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad min, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/songs/nope/similar", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown song, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/songs/song-c/similar?min=50", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", rec.Body.String())
	}
}

func TestSearch(t *testing.T) {
	srv, _ := newTestServer(t, nil, testutil.SampleLibrary()...)

	rec := do(t, srv, http.MethodGet, "/api/search?phrase=Yaari+Vich", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var hits []crossref.PhraseHit
	decode(t, rec, &hits)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Song.ID != "song-a" || hits[0].LineIndex != 2 {
		t.Errorf("Unexpected first hit %s/%d", hits[0].Song.ID, hits[0].LineIndex)
	}

	if rec := do(t, srv, http.MethodGet, "/api/search?phrase=%21%21", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for punctuation-only phrase, got %d", rec.Code)
	}
}

func TestAnalysisEndpoints(t *testing.T) {
	library := testutil.SampleLibrary()
	library[2] = testutil.SavedAgo(library[2], testNow, time.Hour)
	srv, _ := newTestServer(t, nil, library...)

	t.Run("themes", func(t *testing.T) {
		var themes []crossref.Theme
		decode(t, do(t, srv, http.MethodGet, "/api/themes", ""), &themes)
		if len(themes) == 0 || themes[0].Word != "pyar" {
			t.Errorf("Unexpected themes %+v", themes)
		}
	})

	t.Run("artists", func(t *testing.T) {
		var artists []stats.ArtistCount
		decode(t, do(t, srv, http.MethodGet, "/api/artists", ""), &artists)
		if len(artists) != 2 || artists[0] != (stats.ArtistCount{Name: "X", Count: 2}) {
			t.Errorf("Unexpected artists %+v", artists)
		}
	})

	t.Run("stats", func(t *testing.T) {
		var got stats.Stats
		decode(t, do(t, srv, http.MethodGet, "/api/stats", ""), &got)
		if got.TotalSongs != 3 || got.TotalLines != 6 || got.ThisWeek != 1 {
			t.Errorf("Unexpected stats %+v", got)
		}
	})

	t.Run("timeline", func(t *testing.T) {
		var got timelineResponse
		decode(t, do(t, srv, http.MethodGet, "/api/timeline?period=today", ""), &got)
		if got.Period != stats.PeriodToday || len(got.Songs) != 1 || got.Songs[0].ID != "song-c" {
			t.Errorf("Unexpected timeline %+v", got)
		}

		decode(t, do(t, srv, http.MethodGet, "/api/timeline?period=bogus", ""), &got)
		if got.Period != stats.PeriodAll || len(got.Songs) != 3 {
			t.Errorf("Expected all songs for unknown period, got %+v", got)
		}
	})

	t.Run("calendar", func(t *testing.T) {
		var got calendarResponse
		decode(t, do(t, srv, http.MethodGet, "/api/calendar?months=1", ""), &got)
		if got.Months != 1 || got.Days["2024-06-15"] != 1 || got.Days["2024-06-14"] != 0 {
			t.Errorf("Unexpected calendar %+v", got)
		}
		if _, ok := got.Days["2024-05-15"]; !ok {
			t.Error("Expected calendar to start one month back")
		}

		if rec := do(t, srv, http.MethodGet, "/api/calendar?months=-2", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for negative months, got %d", rec.Code)
		}
	})

	t.Run("suggestions", func(t *testing.T) {
		var got suggest.Suggestions
		decode(t, do(t, srv, http.MethodGet, "/api/suggestions", ""), &got)
		if len(got.TopArtists) != 2 {
			t.Errorf("Unexpected suggestions %+v", got)
		}
	})
}

func TestExportImport(t *testing.T) {
	srv, _ := newTestServer(t, nil, testutil.SampleLibrary()...)

	rec := do(t, srv, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "punjabi-lyrics-2024-06-15.json") {
		t.Errorf("Unexpected Content-Disposition %q", got)
	}
	exported := rec.Body.Bytes()

	target, library := newTestServer(t, nil)
	rec = do(t, target, http.MethodPost, "/api/import", string(exported))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	decode(t, rec, &resp)
	if resp["total"] != 3 {
		t.Errorf("Expected 3 songs, got %v", resp)
	}

	songs, _ := library.List(context.Background())
	if len(songs) != 3 || songs[0].ID != "song-a" {
		t.Errorf("Unexpected imported library %+v", songs)
	}

	rec = do(t, target, http.MethodPost, "/api/import", `{"songs":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-array import, got %d", rec.Code)
	}
}

func TestCalendar_MonthsBounds(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"months=36", http.StatusOK},
		{"months=37", http.StatusBadRequest},
		{"months=1000000", http.StatusBadRequest},
		{"months=0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, "/api/calendar?"+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusBadRequest {
				if msg := errorMessage(t, rec); msg != "months must be between 1 and 36" {
					t.Errorf("Unexpected error %q", msg)
				}
			}
		})
	}
}

func TestImport_StorageFailure(t *testing.T) {
	srv, library := newTestServer(t, nil)
	library.Close()

	rec := do(t, srv, http.MethodPost, "/api/import", `[{"id":"a","songName":"A","artist":"X"}]`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 for a storage failure, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "failed to import library" {
		t.Errorf("Unexpected error %q", msg)
	}
}

func TestExport_FailureWritesSingleError(t *testing.T) {
	srv, library := newTestServer(t, nil)
	library.Close()

	rec := do(t, srv, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("Expected no attachment header on failure, got %q", got)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected a single JSON error body, got %q: %v", rec.Body.String(), err)
	}
	if resp.Error != "failed to export library" {
		t.Errorf("Unexpected error %q", resp.Error)
	}
}

func TestCORSAndRouting(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodOptions, "/api/songs/anything", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on preflight")
	}

	rec = do(t, srv, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || errorMessage(t, rec) != "not found" {
		t.Errorf("Expected JSON 404, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPut, "/api/songs", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down")
	}
}
