package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/geet/internal"
	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/song"
)

// ErrNotFound is returned when no song has the requested ID
var ErrNotFound = errors.New("song not found")

// ErrInvalidImport is returned when an import is not a JSON array of songs
var ErrInvalidImport = errors.New("invalid import file")

const schema = `CREATE TABLE IF NOT EXISTS songs (
	id        TEXT PRIMARY KEY,
	song_name TEXT NOT NULL,
	artist    TEXT NOT NULL,
	lyrics    TEXT NOT NULL,
	saved_at  TEXT NOT NULL,
	position  INTEGER NOT NULL
)`

// Store is a song library backed by SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the library database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	// A single connection serializes writers on the one file
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create songs table: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a song and returns it with ID and SavedAt filled in. A song
// with the same name and artist is replaced at its library position and
// keeps its ID and SavedAt unless the new record sets them; other songs
// are added to the front of the library.
func (s *Store) Save(ctx context.Context, in song.Song) (song.Song, error) {
	if err := song.Validate(in); err != nil {
		return song.Song{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return song.Song{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := listTx(ctx, tx)
	if err != nil {
		return song.Song{}, err
	}

	position := frontPosition(existing)
	for _, e := range existing {
		if !e.song.SameTrack(in) {
			continue
		}
		if in.ID == "" {
			in.ID = e.song.ID
		}
		if in.SavedAt.IsZero() {
			in.SavedAt = e.song.SavedAt
		}
		position = e.position
		if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, e.song.ID); err != nil {
			return song.Song{}, fmt.Errorf("failed to replace song: %w", err)
		}
		logger.Debug("replacing song", logger.String("id", e.song.ID), logger.String("name", in.SongName))
		break
	}

	if in.ID == "" {
		in.ID = internal.GenerateSongID()
	}
	if in.SavedAt.IsZero() {
		in.SavedAt = s.now().UTC()
	}

	// An explicit ID may collide with a different song
	res, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, in.ID)
	if err != nil {
		return song.Song{}, fmt.Errorf("failed to replace song: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logger.Warn("song ID reused, replacing a different song",
			logger.String("id", in.ID), logger.String("name", in.SongName))
	}
	if err := insert(ctx, tx, in, position); err != nil {
		return song.Song{}, err
	}

	if err := tx.Commit(); err != nil {
		return song.Song{}, fmt.Errorf("failed to commit song: %w", err)
	}

	logger.Info("song saved", logger.String("id", in.ID), logger.Int("lines", in.LineCount()))
	return in, nil
}

// List returns all songs in library order, newest first
func (s *Store) List(ctx context.Context) ([]song.Song, error) {
	rows, err := listTx(ctx, s.db)
	if err != nil {
		return nil, err
	}

	songs := make([]song.Song, 0, len(rows))
	for _, r := range rows {
		songs = append(songs, r.song)
	}
	return songs, nil
}

// Get returns the song with the given ID
func (s *Store) Get(ctx context.Context, id string) (song.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, song_name, artist, lyrics, saved_at, position FROM songs WHERE id = ?`, id)

	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return song.Song{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return song.Song{}, err
	}
	return r.song, nil
}

// Delete removes the song with the given ID
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	logger.Info("song deleted", logger.String("id", id))
	return nil
}

// Export writes the library as an indented JSON array
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	songs, err := s.List(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode songs: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import merges a JSON array of songs into the library. Imported songs
// come first; when two songs share an ID the first one wins. Songs without
// an ID get a new one. Returns the resulting library size.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read import: %v", ErrInvalidImport, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	var imported []song.Song
	if len(raw) == 0 || raw[0] != '[' {
		return 0, fmt.Errorf("%w: expected an array of songs", ErrInvalidImport)
	}
	if err := json.Unmarshal(raw, &imported); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := listTx(ctx, tx)
	if err != nil {
		return 0, err
	}

	merged := make([]song.Song, 0, len(imported)+len(existing))
	for _, in := range imported {
		if in.ID == "" {
			in.ID = internal.GenerateSongID()
		}
		merged = append(merged, in)
	}
	for _, e := range existing {
		merged = append(merged, e.song)
	}

	seen := make(map[string]bool)
	unique := merged[:0]
	for _, m := range merged {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		unique = append(unique, m)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM songs`); err != nil {
		return 0, fmt.Errorf("failed to clear library: %w", err)
	}
	for i, m := range unique {
		if err := insert(ctx, tx, m, i); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("library imported", logger.Int("imported", len(imported)), logger.Int("total", len(unique)))
	return len(unique), nil
}
