package app

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SessionRecord is one finished review session as stored locally. The
// stats dashboard is computed entirely from these rows, so a session
// survives locally even when the completion call to the backend is
// lost.
type SessionRecord struct {
	ID             string
	SessionID      string
	StartedAt      time.Time
	FinishedAt     time.Time
	NuggetCount    int
	CompletedCount int
	CompletedIDs   []string
}

// HistoryStore keeps finished sessions in a local SQLite database under
// the data dir.
type HistoryStore struct {
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if strings.TrimSpace(dataDir) == "" {
		dataDir = DefaultDataDir()
	}
	dataDir = filepath.Clean(dataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &HistoryStore{dbPath: filepath.Join(dataDir, "history.db")}
	// Initialize eagerly so callers fail fast.
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *HistoryStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		// Keep sqlite responsive under contention.
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")

		schema := []string{
			`CREATE TABLE IF NOT EXISTS session_history (
				id TEXT PRIMARY KEY,
				session_id TEXT,
				started_at_ns INTEGER NOT NULL,
				finished_at_ns INTEGER NOT NULL,
				nugget_count INTEGER NOT NULL,
				completed_count INTEGER NOT NULL,
				completed_ids TEXT NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_history_finished ON session_history(finished_at_ns);`,
		}
		for _, stmt := range schema {
			if _, err := db.Exec(stmt); err != nil {
				_ = db.Close()
				s.err = err
				return
			}
		}
		s.db = db
	})
	return s.err
}

// Record inserts one finished session. Re-recording the same local id
// overwrites the row, which makes Finish safe to retry.
func (s *HistoryStore) Record(rec SessionRecord) error {
	if err := s.init(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = rec.SessionID
	}
	ids, err := json.Marshal(rec.CompletedIDs)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO session_history
			(id, session_id, started_at_ns, finished_at_ns, nugget_count, completed_count, completed_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID,
		rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano(),
		rec.NuggetCount, rec.CompletedCount, string(ids),
	)
	return err
}

// List returns all finished sessions, most recent first.
func (s *HistoryStore) List() ([]SessionRecord, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT id, session_id, started_at_ns, finished_at_ns, nugget_count, completed_count, completed_ids
			FROM session_history ORDER BY finished_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var startedNs, finishedNs int64
		var idsJSON string
		var sessionID sql.NullString
		if err := rows.Scan(&rec.ID, &sessionID, &startedNs, &finishedNs,
			&rec.NuggetCount, &rec.CompletedCount, &idsJSON); err != nil {
			return nil, err
		}
		rec.SessionID = sessionID.String
		rec.StartedAt = time.Unix(0, startedNs).UTC()
		rec.FinishedAt = time.Unix(0, finishedNs).UTC()
		if idsJSON != "" {
			_ = json.Unmarshal([]byte(idsJSON), &rec.CompletedIDs)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
