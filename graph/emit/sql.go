package emit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// SQLEmitter archives every event to a single "graphwalk_events" table. It
// is driver-agnostic: NewSQLiteEmitter and NewMySQLEmitter both build one
// around the driver-appropriate *sql.DB and placeholder style.
//
// Schema:
//
//	graphwalk_events(id INTEGER/BIGINT PK AUTOINCREMENT, run_id, step,
//	node_id, msg, meta_json, recorded_at)
type SQLEmitter struct {
	db          *sql.DB
	mu          sync.Mutex
	insertQuery string
	closed      bool
}

// NewSQLiteEmitter opens (creating if needed) a SQLite database at path and
// prepares the events table. path may be ":memory:" for a scratch database.
func NewSQLiteEmitter(path string) (*SQLEmitter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS graphwalk_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	node_id TEXT NOT NULL,
	msg TEXT NOT NULL,
	meta_json TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	const insert = `INSERT INTO graphwalk_events(run_id, step, node_id, msg, meta_json, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`
	return &SQLEmitter{db: db, insertQuery: insert}, nil
}

// NewMySQLEmitter connects to a MySQL database using dsn (the
// go-sql-driver/mysql DSN format, e.g. "user:pass@tcp(host:3306)/dbname")
// and prepares the events table.
func NewMySQLEmitter(dsn string) (*SQLEmitter, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS graphwalk_events (
	id BIGINT PRIMARY KEY AUTO_INCREMENT,
	run_id VARCHAR(255) NOT NULL,
	step INT NOT NULL,
	node_id VARCHAR(255) NOT NULL,
	msg VARCHAR(255) NOT NULL,
	meta_json TEXT NOT NULL,
	recorded_at VARCHAR(64) NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	const insert = `INSERT INTO graphwalk_events(run_id, step, node_id, msg, meta_json, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`
	return &SQLEmitter{db: db, insertQuery: insert}, nil
}

func (s *SQLEmitter) Emit(event Event) {
	_ = s.insert(context.Background(), event)
}

func (s *SQLEmitter) EmitBatch(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.insertQuery)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		metaJSON, err := json.Marshal(event.Meta)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal meta: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, event.RunID, event.Step, event.NodeID, event.Msg, string(metaJSON), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLEmitter) insert(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metaJSON, err := json.Marshal(event.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.insertQuery, event.RunID, event.Step, event.NodeID, event.Msg, string(metaJSON), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLEmitter) Flush(context.Context) error { return nil }

// Close closes the underlying database connection. Safe to call more than
// once.
func (s *SQLEmitter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
