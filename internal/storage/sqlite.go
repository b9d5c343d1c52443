// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run results.
const (
	ResultWon    = "won"
	ResultFailed = "failed"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished attempt at a room: it ends with a win or a failure
// that sent the player back to round zero.
type Run struct {
	ID        int64
	RunID     string // uuid
	RoomID    string
	Rounds    int // Rounds cleared before the run ended
	Result    string
	Reason    string
	Fixes     int
	Strikes   int
	CreatedAt time.Time
}

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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			room_id TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			result TEXT NOT NULL CHECK (result IN ('won', 'failed')),
			reason TEXT NOT NULL DEFAULT '',
			fixes INTEGER NOT NULL DEFAULT 0,
			strikes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_room_id ON runs(room_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(room_id, rounds DESC);
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

// SaveRun records a finished run. A missing RunID is generated.
// Returns the run id.
func (s *Store) SaveRun(run Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.Result != ResultWon && run.Result != ResultFailed {
		return "", fmt.Errorf("storage: invalid run result %q", run.Result)
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, room_id, rounds, result, reason, fixes, strikes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.RoomID, run.Rounds, run.Result, run.Reason, run.Fixes, run.Strikes,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.RunID, nil
}

const runColumns = `id, run_id, room_id, rounds, result, reason, fixes, strikes, created_at`

// BestRuns retrieves the top N runs for a room.
// Ordered by rounds cleared, then wins first, then fewest strikes.
func (s *Store) BestRuns(roomID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE room_id = ?
		 ORDER BY rounds DESC, result = 'won' DESC, strikes ASC, id ASC
		 LIMIT ?`,
		roomID, limit,
	)
}

// RecentRuns retrieves the latest runs across all rooms.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// RunByID retrieves a run by its uuid. Returns nil if not found.
func (s *Store) RunByID(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &run, nil
}

// BestRound returns the most rounds cleared in a room.
// Returns 0 if no runs exist.
func (s *Store) BestRound(roomID string) (int, error) {
	var rounds sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(rounds) FROM runs WHERE room_id = ?",
		roomID,
	).Scan(&rounds)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best round: %w", err)
	}
	if !rounds.Valid {
		return 0, nil
	}
	return int(rounds.Int64), nil
}

// ClearRuns deletes all runs for a room.
func (s *Store) ClearRuns(roomID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE room_id = ?", roomID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// RoomStats contains aggregated statistics for a room.
type RoomStats struct {
	RoomID     string
	Runs       int
	Wins       int
	BestRound  int
	TotalFixes int64
	LastPlayed time.Time
}

// GetRoomStats retrieves aggregated statistics for a room.
func (s *Store) GetRoomStats(roomID string) (*RoomStats, error) {
	stats := &RoomStats{RoomID: roomID}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(result = 'won'), 0),
		        COALESCE(MAX(rounds), 0),
		        COALESCE(SUM(fixes), 0),
		        MAX(created_at)
		 FROM runs WHERE room_id = ?`,
		roomID,
	).Scan(&stats.Runs, &stats.Wins, &stats.BestRound, &stats.TotalFixes, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get room stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt any
	err := row.Scan(&r.ID, &r.RunID, &r.RoomID, &r.Rounds, &r.Result, &r.Reason, &r.Fixes, &r.Strikes, &createdAt)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
