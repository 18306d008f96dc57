// Package store provides SQLite persistence for trend records and the
// conversation log.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"trendspotter/internal/trend"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// TurnRow is one logged conversation turn.
type TurnRow struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// Build connection string based on database type
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		text TEXT NOT NULL,
		location TEXT,
		popularity INTEGER DEFAULT 0,
		embedding TEXT NOT NULL,
		keywords TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(collection, text)
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);

	CREATE TABLE IF NOT EXISTS conversation_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_conversation_session ON conversation_log(session_id, id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveRecords stores records under a collection, returning the count of new
// rows. Duplicates (same collection and text) are silently ignored.
// Thread-safe: acquires write lock.
func (s *Store) SaveRecords(collection string, records []trend.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(records) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO records (
			id, collection, text, location, popularity, embedding, keywords
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, rec := range records {
		embJSON, err := json.Marshal(rec.Embedding)
		if err != nil {
			return newCount, fmt.Errorf("marshal embedding: %w", err)
		}

		result, err := stmt.Exec(
			uuid.NewString(),
			collection,
			rec.Text,
			rec.Location,
			rec.Popularity,
			string(embJSON),
			strings.Join(rec.Keywords, ","),
		)
		if err != nil {
			return newCount, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}

	return newCount, nil
}

// Records returns every record in a collection. The retrieval pipeline
// consumes these read-only; the scan is bounded by the collection.
// Thread-safe: acquires read lock.
func (s *Store) Records(ctx context.Context, collection string) ([]trend.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT text, location, popularity, embedding, keywords
		FROM records
		WHERE collection = ?
		ORDER BY created_at
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []trend.Record
	for rows.Next() {
		var rec trend.Record
		var embJSON, keywords string
		if err := rows.Scan(&rec.Text, &rec.Location, &rec.Popularity, &embJSON, &keywords); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(embJSON), &rec.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshal embedding: %w", err)
		}
		if keywords != "" {
			rec.Keywords = strings.Split(keywords, ",")
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountRecords returns the number of records in a collection.
// Thread-safe: acquires read lock.
func (s *Store) CountRecords(collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM records WHERE collection = ?", collection,
	).Scan(&n)
	return n, err
}

// AppendTurn logs one conversation turn for a session.
// Thread-safe: acquires write lock.
func (s *Store) AppendTurn(sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO conversation_log (session_id, role, content)
		VALUES (?, ?, ?)
	`, sessionID, role, content)
	return err
}

// Turns returns the logged conversation for a session in append order.
// Thread-safe: acquires read lock.
func (s *Store) Turns(sessionID string) ([]TurnRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT role, content, created_at
		FROM conversation_log
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRow
	for rows.Next() {
		var t TurnRow
		if err := rows.Scan(&t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}
