package lyrics

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS lyrics (
	artist     TEXT NOT NULL,
	title      TEXT NOT NULL,
	lyrics     TEXT,
	found      INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (artist, title)
)`

// Cache is a Source that memoizes another Source in SQLite.
type Cache struct {
	log  *zap.SugaredLogger
	db   *sql.DB
	mu   sync.RWMutex
	next Source
}

// Entry is a cached lookup. Found is false for a remembered miss.
type Entry struct {
	Lyrics string
	Found  bool
}

// OpenCache opens (creating if needed) the SQLite database at path.
func OpenCache(log *zap.SugaredLogger, path string, next Source) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	log.Infow("lyrics cache initialized", "path", path)
	return &Cache{log: log, db: db, next: next}, nil
}

func (c *Cache) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	if e, ok := c.Get(ctx, track.Artist, track.Title); ok {
		if !e.Found {
			return "", soundtrack.ErrLyricsUnavailable
		}
		return e.Lyrics, nil
	}

	body, err := c.next.Lyrics(ctx, track)
	switch {
	case err == nil:
		c.Set(ctx, track.Artist, track.Title, body, true)
	// Only a bare miss is remembered; wrapped source failures are retried next time.
	case err == soundtrack.ErrLyricsUnavailable:
		c.Set(ctx, track.Artist, track.Title, "", false)
	}
	return body, err
}

func (c *Cache) Get(ctx context.Context, artist, title string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var lyrics sql.NullString
	var found int
	err := c.db.QueryRowContext(ctx,
		"SELECT lyrics, found FROM lyrics WHERE artist = ? AND title = ?",
		cacheKey(artist), cacheKey(title),
	).Scan(&lyrics, &found)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warnw("lyrics cache read failed", "error", err)
		}
		return nil, false
	}
	return &Entry{Lyrics: lyrics.String, Found: found == 1}, true
}

func (c *Cache) Set(ctx context.Context, artist, title, lyrics string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	foundInt := 0
	if found {
		foundInt = 1
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lyrics (artist, title, lyrics, found) VALUES (?, ?, ?, ?)`,
		cacheKey(artist), cacheKey(title), lyrics, foundInt,
	)
	if err != nil {
		c.log.Warnw("lyrics cache write failed", "error", err)
	}
}

// Stats reports the number of cached entries and how many of them hold lyrics.
func (c *Cache) Stats(ctx context.Context) (total, found int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lyrics").Scan(&total); err != nil {
		c.log.Warnw("failed to count cached lyrics", "error", err)
	}
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lyrics WHERE found = 1").Scan(&found); err != nil {
		c.log.Warnw("failed to count found lyrics", "error", err)
	}
	return total, found
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
