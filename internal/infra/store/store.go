// Package store provides local persistence for likes and listening
// history, backed by SQLite.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Store wraps the SQLite database holding user library data.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create data dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// WAL mode keeps reads cheap while the player writes history.
	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "configure database")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS likes (
			song_id     TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			artist      TEXT NOT NULL DEFAULT '',
			thumbnail   TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			liked_at    INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create likes table")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			song_id        TEXT PRIMARY KEY,
			title          TEXT NOT NULL DEFAULT '',
			artist         TEXT NOT NULL DEFAULT '',
			thumbnail      TEXT NOT NULL DEFAULT '',
			duration_ms    INTEGER NOT NULL DEFAULT 0,
			play_count     INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history table")
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ToggleLike flips the liked state of a song and returns the new state.
func (s *Store) ToggleLike(ctx context.Context, sg song.Song) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM likes WHERE song_id = ?`, sg.ID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "query like")
	}

	if exists > 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE song_id = ?`, sg.ID); err != nil {
			return false, errors.Wrap(err, "delete like")
		}
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO likes (song_id, title, artist, thumbnail, duration_ms, liked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sg.ID, sg.Title, sg.Artist, sg.Thumbnail, sg.Duration.Milliseconds(), time.Now().UnixMilli())
	if err != nil {
		return false, errors.Wrap(err, "insert like")
	}
	return true, nil
}

// IsLiked reports whether a song is in the likes table.
func (s *Store) IsLiked(ctx context.Context, songID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM likes WHERE song_id = ?`, songID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "query like")
	}
	return exists > 0, nil
}

// Liked returns all liked songs, most recently liked first.
func (s *Store) Liked(ctx context.Context) ([]song.Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id, title, artist, thumbnail, duration_ms
		FROM likes
		ORDER BY liked_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query likes")
	}
	defer rows.Close()

	return scanSongs(rows)
}

// RecordPlay upserts a history row for the song and bumps its play count.
func (s *Store) RecordPlay(ctx context.Context, sg song.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (song_id, title, artist, thumbnail, duration_ms, play_count, last_played_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			play_count     = play_count + 1,
			last_played_at = excluded.last_played_at,
			title          = excluded.title,
			artist         = excluded.artist,
			thumbnail      = excluded.thumbnail,
			duration_ms    = excluded.duration_ms
	`, sg.ID, sg.Title, sg.Artist, sg.Thumbnail, sg.Duration.Milliseconds(), time.Now().UnixMilli())
	return errors.Wrap(err, "record play")
}

// Recent returns the listening history, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]song.Song, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id, title, artist, thumbnail, duration_ms
		FROM history
		ORDER BY last_played_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query history")
	}
	defer rows.Close()

	return scanSongs(rows)
}

// PlayCount returns how many times a song has been played.
func (s *Store) PlayCount(ctx context.Context, songID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT play_count FROM history WHERE song_id = ?`, songID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "query play count")
	}
	return count, nil
}

func scanSongs(rows *sql.Rows) ([]song.Song, error) {
	var out []song.Song
	for rows.Next() {
		var sg song.Song
		var durationMs int64
		if err := rows.Scan(&sg.ID, &sg.Title, &sg.Artist, &sg.Thumbnail, &durationMs); err != nil {
			return nil, errors.Wrap(err, "scan song")
		}
		sg.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, sg)
	}
	return out, errors.Wrap(rows.Err(), "iterate songs")
}
