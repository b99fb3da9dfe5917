package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Archive persists generated reports so past evaluations of a system
// can be compared. The full report is stored as a JSON document next to
// the queryable summary columns.
type Archive struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt *sql.Stmt
	getStmt  *sql.Stmt
	listStmt *sql.Stmt
}

// ArchiveConfig configures the report archive.
type ArchiveConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// ArchivedReport is one row of the archive listing.
type ArchivedReport struct {
	ID              string    `json:"id"`
	GeneratedAt     time.Time `json:"generated_at"`
	SystemName      string    `json:"system_name"`
	Regulation      string    `json:"regulation"`
	ComplianceScore float64   `json:"compliance_score"`
	OverallVerdict  string    `json:"overall_verdict"`
}

// NewArchive opens the archive database, creating the schema if needed.
func NewArchive(cfg ArchiveConfig) (*Archive, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	a := &Archive{db: db}

	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := a.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return a, nil
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		system_name TEXT NOT NULL,
		regulation TEXT NOT NULL,
		compliance_score REAL NOT NULL,
		overall_verdict TEXT NOT NULL,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_system ON reports(system_name);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

func (a *Archive) prepareStatements() error {
	var err error

	a.saveStmt, err = a.db.Prepare(`
		INSERT INTO reports (id, generated_at, system_name, regulation, compliance_score, overall_verdict, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	a.getStmt, err = a.db.Prepare(`
		SELECT document FROM reports WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	a.listStmt, err = a.db.Prepare(`
		SELECT id, generated_at, system_name, regulation, compliance_score, overall_verdict
		FROM reports
		WHERE (? = '' OR system_name = ?)
		ORDER BY generated_at DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// Save persists a report. Report IDs are unique; saving the same report
// twice is an error.
func (a *Archive) Save(ctx context.Context, r *ComplianceReport) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}

	document, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err = a.saveStmt.ExecContext(ctx,
		r.ID,
		r.GeneratedAt.UTC().Format(time.RFC3339Nano),
		r.SystemName,
		r.Regulation,
		r.Summary.ComplianceScore,
		string(r.Summary.OverallVerdict),
		string(document),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get retrieves a full report by ID. Returns nil when no report with
// that ID exists.
func (a *Archive) Get(ctx context.Context, id string) (*ComplianceReport, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var document string
	err := a.getStmt.QueryRowContext(ctx, id).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var r ComplianceReport
	if err := json.Unmarshal([]byte(document), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}

// List returns archived report summaries, newest first. An empty
// systemName matches all systems. limit <= 0 defaults to 50.
func (a *Archive) List(ctx context.Context, systemName string, limit int) ([]ArchivedReport, error) {
	if limit <= 0 {
		limit = 50
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.listStmt.QueryContext(ctx, systemName, systemName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var (
			r           ArchivedReport
			generatedAt string
		)
		if err := rows.Scan(&r.ID, &generatedAt, &r.SystemName, &r.Regulation, &r.ComplianceScore, &r.OverallVerdict); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return reports, nil
}

// Close releases the database. Close is idempotent.
func (a *Archive) Close() error {
	var closeErr error

	a.closeOnce.Do(func() {
		if a.saveStmt != nil {
			a.saveStmt.Close()
		}
		if a.getStmt != nil {
			a.getStmt.Close()
		}
		if a.listStmt != nil {
			a.listStmt.Close()
		}
		if a.db != nil {
			_, _ = a.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = a.db.Close()
		}
	})

	return closeErr
}
