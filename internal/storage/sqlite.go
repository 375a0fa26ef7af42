// Package storage provides SQLite-based persistence for canvas session
// statistics. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session statistics.
type Store struct {
	db *sql.DB
}

// Session is the summary of one canvas run.
type Session struct {
	ID         int64
	SessionID  string
	SceneID    string
	User       string
	Ticks      int
	Taps       int
	Drags      int
	Flings     int
	Collisions int
	Bounces    int
	Duration   int // Duration in seconds
	CreatedAt  time.Time
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	SceneID         string
	Sessions        int
	TotalTicks      int64
	TotalTaps       int64
	TotalDrags      int64
	TotalFlings     int64
	TotalCollisions int64
	MostCollisions  int
	AvgDuration     float64
	LastPlayed      time.Time
}

const timeLayout = "2006-01-02 15:04:05"

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			scene_id TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			taps INTEGER NOT NULL DEFAULT 0,
			drags INTEGER NOT NULL DEFAULT 0,
			flings INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			bounces INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_scene_id ON sessions(scene_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records the statistics of a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.SessionID == "" || sess.SceneID == "" {
		return 0, errors.New("storage: session and scene ids are required")
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, scene_id, user, ticks, taps, drags, flings, collisions, bounces, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.SessionID,
		sess.SceneID,
		sess.User,
		sess.Ticks,
		sess.Taps,
		sess.Drags,
		sess.Flings,
		sess.Collisions,
		sess.Bounces,
		sess.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const sessionColumns = `id, session_id, scene_id, user, ticks, taps, drags, flings,
	collisions, bounces, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var createdAt any
	err := row.Scan(
		&sess.ID,
		&sess.SessionID,
		&sess.SceneID,
		&sess.User,
		&sess.Ticks,
		&sess.Taps,
		&sess.Drags,
		&sess.Flings,
		&sess.Collisions,
		&sess.Bounces,
		&sess.Duration,
		&createdAt,
	)
	if err != nil {
		return sess, err
	}
	sess.CreatedAt = parseTime(createdAt)
	return sess, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SessionByID retrieves a session by its session ID.
// Returns nil without error if it does not exist.
func (s *Store) SessionByID(sessionID string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`,
		sessionID,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &sess, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
// An empty sceneID returns sessions of every scene.
func (s *Store) RecentSessions(sceneID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ClearSessions deletes all sessions of the given scene.
func (s *Store) ClearSessions(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

const statsColumns = `COUNT(*), COALESCE(SUM(ticks), 0), COALESCE(SUM(taps), 0),
	COALESCE(SUM(drags), 0), COALESCE(SUM(flings), 0), COALESCE(SUM(collisions), 0),
	COALESCE(MAX(collisions), 0), COALESCE(AVG(duration_secs), 0), MAX(created_at)`

func scanStats(row scanner, st *SceneStats) error {
	var lastPlayed any
	err := row.Scan(
		&st.Sessions,
		&st.TotalTicks,
		&st.TotalTaps,
		&st.TotalDrags,
		&st.TotalFlings,
		&st.TotalCollisions,
		&st.MostCollisions,
		&st.AvgDuration,
		&lastPlayed,
	)
	if err != nil {
		return err
	}
	st.LastPlayed = parseTime(lastPlayed)
	return nil
}

// GetSceneStats retrieves aggregated statistics for a specific scene.
func (s *Store) GetSceneStats(sceneID string) (*SceneStats, error) {
	stats := &SceneStats{SceneID: sceneID}

	row := s.db.QueryRow(`SELECT `+statsColumns+` FROM sessions WHERE scene_id = ?`, sceneID)
	if err := scanStats(row, stats); err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}

	return stats, nil
}

// GetAllScenesStats retrieves statistics for all scenes that have been run.
func (s *Store) GetAllScenesStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, ` + statsColumns + `
		 FROM sessions
		 GROUP BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scenes stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var st SceneStats
		var sceneID string
		if err := scanStats(prefixed{rows, &sceneID}, &st); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.SceneID = sceneID
		stats[sceneID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// prefixed scans a leading column before handing the rest to dest.
type prefixed struct {
	row   scanner
	first any
}

func (p prefixed) Scan(dest ...any) error {
	return p.row.Scan(append([]any{p.first}, dest...)...)
}
