package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"codeberg.org/snonux/geet/internal/crossref"
	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/lyrics"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/stats"
	"codeberg.org/snonux/geet/internal/store"
	"codeberg.org/snonux/geet/internal/suggest"
	"codeberg.org/snonux/geet/internal/translation"
)

type translateRequest struct {
	Lyrics string `json:"lyrics"`
}

type translateResponse struct {
	Translations []song.Line `json:"translations"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := translation.ValidateLyrics(req.Lyrics); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.translator == nil {
		writeError(w, http.StatusServiceUnavailable, "no translation provider configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	lines, err := s.translator.Translate(ctx, req.Lyrics)
	switch {
	case errors.Is(err, translation.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		logger.Error("translation failed", logger.Err(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to translate lyrics: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{Translations: nonNil(lines)})
}

func (s *Server) handleLyrics(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "no lyrics source configured")
		return
	}

	vars := mux.Vars(r)
	text, err := s.fetcher.Fetch(r.Context(), vars["artist"], vars["song"])
	switch {
	case errors.Is(err, lyrics.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, lyrics.ErrMissingArgs):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"lyrics": text})
}

// songs loads the library or writes a 500 and returns false
func (s *Server) songs(w http.ResponseWriter, r *http.Request) ([]song.Song, bool) {
	songs, err := s.library.List(r.Context())
	if err != nil {
		logger.Error("failed to list songs", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to load library")
		return nil, false
	}
	return songs, true
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(songs))
}

func (s *Server) handleSaveSong(w http.ResponseWriter, r *http.Request) {
	var in song.Song
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := song.Validate(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.library.Save(r.Context(), in)
	if err != nil {
		logger.Error("failed to save song", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to save song")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// target loads the song named by the {id} route variable or writes an error
func (s *Server) target(w http.ResponseWriter, r *http.Request) (song.Song, bool) {
	found, err := s.library.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return song.Song{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load song")
		return song.Song{}, false
	}
	return found, true
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	found, ok := s.target(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	err := s.library.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete song")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	minMatches, ok := intParam(r, "min", crossref.DefaultMinMatchCount)
	if !ok {
		writeError(w, http.StatusBadRequest, "min must be a positive integer")
		return
	}

	target, ok := s.target(w, r)
	if !ok {
		return
	}
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, nonNil(crossref.FindSimilarSongs(&target, songs, minMatches)))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")
	if crossref.Normalize(phrase) == "" {
		writeError(w, http.StatusBadRequest, "phrase is required")
		return
	}

	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(crossref.FindSongsWithPhrase(phrase, songs)))
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(crossref.ExtractCommonThemes(songs)))
}

func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(stats.ArtistFrequency(songs)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.CalculateAt(songs, s.now()))
}

type timelineResponse struct {
	Period stats.Period `json:"period"`
	Songs  []song.Song  `json:"songs"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}

	period := stats.ParsePeriod(r.URL.Query().Get("period"))
	writeJSON(w, http.StatusOK, timelineResponse{
		Period: period,
		Songs:  nonNil(stats.SongsInPeriodAt(songs, period, s.now())),
	})
}

type calendarResponse struct {
	Months int            `json:"months"`
	Days   map[string]int `json:"days"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	months, ok := intParam(r, "months", stats.DefaultCalendarMonths)
	if !ok || months > stats.MaxCalendarMonths {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("months must be between 1 and %d", stats.MaxCalendarMonths))
		return
	}

	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		Months: months,
		Days:   stats.ActivityCalendarAt(songs, months, s.now()),
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	songs, ok := s.songs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, suggest.Build(songs))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.library.Export(r.Context(), &buf); err != nil {
		logger.Error("export failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to export library")
		return
	}

	filename := fmt.Sprintf("punjabi-lyrics-%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("failed to write export", logger.Err(err))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	n, err := s.library.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes))
	switch {
	case errors.Is(err, store.ErrInvalidImport):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Error("import failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to import library")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total": n})
}
