package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"veridex-hq/callisto/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite audit store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

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
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the audit database, initializing the schema and
// enabling WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return audit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Append persists one entry.
func (s *SQLiteStore) Append(ctx context.Context, entry *audit.Entry) error {
	targetIDs, err := json.Marshal(entry.TargetIDs)
	if err != nil {
		return audit.NewStorageError("sqlite", "marshal_target_ids", err)
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return audit.NewStorageError("sqlite", "marshal_details", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_entries
			(id, timestamp, stage, action, actor, target_ids,
			 input_hash, output_hash, verdict, details, previous_hash, entry_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		string(entry.Stage),
		entry.Action,
		entry.Actor,
		string(targetIDs),
		entry.InputHash,
		entry.OutputHash,
		entry.Verdict,
		string(details),
		entry.PreviousHash,
		entry.EntryHash,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "insert", err)
	}
	return nil
}

// LastHash returns the entry hash of the highest seq row.
func (s *SQLiteStore) LastHash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT entry_hash FROM audit_entries ORDER BY seq DESC LIMIT 1").Scan(&hash)
	if err == sql.ErrNoRows {
		return audit.GenesisHash, nil
	}
	if err != nil {
		return "", audit.NewStorageError("sqlite", "last_hash", err)
	}
	return hash, nil
}

// List returns matching entries in append (seq) order.
func (s *SQLiteStore) List(ctx context.Context, q audit.Query) ([]*audit.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, timestamp, stage, action, actor, target_ids,
		       input_hash, output_hash, verdict, details, previous_hash, entry_hash
		FROM audit_entries`
	var conds []string
	var args []any

	if q.Stage != "" {
		conds = append(conds, "stage = ?")
		args = append(args, string(q.Stage))
	}
	if q.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, q.Action)
	}
	if q.Actor != "" {
		conds = append(conds, "actor = ?")
		args = append(args, q.Actor)
	}
	if q.Verdict != "" {
		conds = append(conds, "verdict = ?")
		args = append(args, q.Verdict)
	}
	if !q.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, q.From.UTC().Format(time.RFC3339Nano))
	}
	if !q.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, q.To.UTC().Format(time.RFC3339Nano))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, q.Offset)
		}
	} else if q.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "list_rows", err)
	}
	return entries, nil
}

// Count returns the total number of entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_entries").Scan(&count); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEntry(rows *sql.Rows) (*audit.Entry, error) {
	var (
		e          audit.Entry
		timestamp  string
		stage      string
		targetIDs  string
		detailsRaw string
	)
	err := rows.Scan(
		&e.ID, &timestamp, &stage, &e.Action, &e.Actor, &targetIDs,
		&e.InputHash, &e.OutputHash, &e.Verdict, &detailsRaw,
		&e.PreviousHash, &e.EntryHash,
	)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "scan", err)
	}

	e.Stage = audit.Stage(stage)
	e.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "parse_timestamp", err)
	}
	if err := json.Unmarshal([]byte(targetIDs), &e.TargetIDs); err != nil {
		return nil, audit.NewStorageError("sqlite", "unmarshal_target_ids", err)
	}
	if err := json.Unmarshal([]byte(detailsRaw), &e.Details); err != nil {
		return nil, audit.NewStorageError("sqlite", "unmarshal_details", err)
	}
	return &e, nil
}
