package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/store"
	"codeberg.org/snonux/geet/internal/translation"
)

const maxBodyBytes = 10 << 20

// LyricsFetcher looks up raw lyrics by artist and song name
type LyricsFetcher interface {
	Fetch(ctx context.Context, artist, songName string) (string, error)
}

// Server serves the geet HTTP API
type Server struct {
	library        *store.Store
	translator     translation.Translator
	fetcher        LyricsFetcher
	requestTimeout time.Duration
	now            func() time.Time
	router         *mux.Router
}

// New creates a server. translator and fetcher may be nil; their
// endpoints then answer 503.
func New(library *store.Store, translator translation.Translator, fetcher LyricsFetcher, requestTimeout time.Duration) *Server {
	s := &Server{
		library:        library,
		translator:     translator,
		fetcher:        fetcher,
		requestTimeout: requestTimeout,
		now:            time.Now,
		router:         mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router.PathPrefix("/api").Subrouter()

	r.HandleFunc("/translate", s.handleTranslate).Methods(http.MethodPost)
	r.HandleFunc("/lyrics/{artist}/{song}", s.handleLyrics).Methods(http.MethodGet)

	r.HandleFunc("/songs", s.handleListSongs).Methods(http.MethodGet)
	r.HandleFunc("/songs", s.handleSaveSong).Methods(http.MethodPost)
	r.HandleFunc("/songs/{id}", s.handleGetSong).Methods(http.MethodGet)
	r.HandleFunc("/songs/{id}", s.handleDeleteSong).Methods(http.MethodDelete)
	r.HandleFunc("/songs/{id}/similar", s.handleSimilar).Methods(http.MethodGet)

	r.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/themes", s.handleThemes).Methods(http.MethodGet)
	r.HandleFunc("/artists", s.handleArtists).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)
	r.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	r.HandleFunc("/suggestions", s.handleSuggestions).Methods(http.MethodGet)

	r.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler returns the API wrapped in CORS and request logging middleware.
// CORS wraps the router so preflight requests never reach route matching.
func (s *Server) Handler() http.Handler {
	return cors(logRequests(s.router))
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.requestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
