package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/snonux/geet/internal/song"
)

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type scanner interface {
	Scan(dest ...any) error
}

type storedSong struct {
	song     song.Song
	position int
}

func listTx(ctx context.Context, q queryer) ([]storedSong, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, song_name, artist, lyrics, saved_at, position FROM songs ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	var out []storedSong
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return out, nil
}

func scanRow(row scanner) (storedSong, error) {
	var (
		r       storedSong
		lyrics  string
		savedAt string
	)
	if err := row.Scan(&r.song.ID, &r.song.SongName, &r.song.Artist, &lyrics, &savedAt, &r.position); err != nil {
		return storedSong{}, err
	}

	if err := json.Unmarshal([]byte(lyrics), &r.song.Lyrics); err != nil {
		return storedSong{}, fmt.Errorf("corrupt lyrics for song %s: %w", r.song.ID, err)
	}
	if savedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return storedSong{}, fmt.Errorf("corrupt saved_at for song %s: %w", r.song.ID, err)
		}
		r.song.SavedAt = t
	}
	return r, nil
}

func insert(ctx context.Context, tx *sql.Tx, s song.Song, position int) error {
	lyrics, err := json.Marshal(s.Lyrics)
	if err != nil {
		return fmt.Errorf("failed to encode lyrics: %w", err)
	}

	savedAt := ""
	if !s.SavedAt.IsZero() {
		savedAt = s.SavedAt.Format(time.RFC3339Nano)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO songs (id, song_name, artist, lyrics, saved_at, position) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.SongName, s.Artist, string(lyrics), savedAt, position)
	if err != nil {
		return fmt.Errorf("failed to insert song %s: %w", s.ID, err)
	}
	return nil
}

// frontPosition returns a position before every stored song
func frontPosition(rows []storedSong) int {
	if len(rows) == 0 {
		return 0
	}
	return rows[0].position - 1
}
