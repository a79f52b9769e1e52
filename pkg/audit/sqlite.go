package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// schema contains the SQL statements to create the audit database schema.
const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    hook TEXT NOT NULL,
    subject TEXT NOT NULL,
    target TEXT NOT NULL,
    class TEXT NOT NULL,
    permissions TEXT NOT NULL,
    decision TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_decision ON audit_records(decision);
CREATE INDEX IF NOT EXISTS idx_audit_class ON audit_records(class);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	insert *sql.Stmt
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend. It initializes the
// schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "open", Cause: err}
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return &StorageError{Backend: "sqlite", Op: "enable_wal", Cause: err}
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return &StorageError{Backend: "sqlite", Op: "set_busy_timeout", Cause: err}
	}

	if _, err := s.db.Exec(schema); err != nil {
		return &StorageError{Backend: "sqlite", Op: "create_schema", Cause: err}
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return &StorageError{Backend: "sqlite", Op: "insert_schema_version", Cause: err}
	}

	insert, err := s.db.Prepare(`
		INSERT INTO audit_records
		(id, timestamp, hook, subject, target, class, permissions, decision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &StorageError{Backend: "sqlite", Op: "prepare_insert", Cause: err}
	}
	s.insert = insert

	return nil
}

// Store persists one record.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	_, err := s.insert.ExecContext(ctx,
		record.ID,
		record.Timestamp.UTC(),
		record.Hook,
		record.Subject,
		record.Target,
		record.Class,
		record.Permissions,
		string(record.Decision),
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Op: "store", Cause: err}
	}
	return nil
}

// Query returns records matching the query, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	var (
		conds []string
		args  []any
	)
	if query.Since != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, query.Since.UTC())
	}
	if query.Until != nil {
		conds = append(conds, "timestamp < ?")
		args = append(args, query.Until.UTC())
	}
	if query.Decision != "" {
		conds = append(conds, "decision = ?")
		args = append(args, string(query.Decision))
	}
	if query.Class != "" {
		conds = append(conds, "class = ?")
		args = append(args, query.Class)
	}

	q := "SELECT id, timestamp, hook, subject, target, class, permissions, decision FROM audit_records"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp DESC LIMIT ?"

	limit := query.Limit
	if limit <= 0 {
		limit = 1000
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "query", Cause: err}
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		var decision string
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Hook, &r.Subject, &r.Target, &r.Class, &r.Permissions, &decision); err != nil {
			return nil, &StorageError{Backend: "sqlite", Op: "scan", Cause: err}
		}
		r.Decision = Decision(decision)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "query", Cause: err}
	}
	return out, nil
}

// Prune deletes records older than the given time.
func (s *SQLiteStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_records WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Op: "prune", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Op: "prune", Cause: err}
	}
	return n, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLiteStorage) Close() error {
	if s.insert != nil {
		s.insert.Close()
	}
	return s.db.Close()
}
