package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"skiff-hq/skiff/pkg/export"
)

// SQLiteConfig contains configuration for the SQLite row source.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Table is the table to export. Ignored when Query is set.
	Table string

	// Query is a SELECT statement to export instead of a whole table.
	// The statement should carry its own ORDER BY for stable paging.
	Query string

	// Columns restricts the exported columns in table mode. Empty
	// means all columns.
	Columns []string

	// OrderBy is the ordering column for table mode. Default: "rowid".
	// Pagination over an unordered result set is not stable.
	OrderBy string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite source configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		OrderBy:      "rowid",
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteSource implements export.Source over a SQLite table or query
// using LIMIT/OFFSET pagination.
type SQLiteSource struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteSource opens the database and prepares the source.
func NewSQLiteSource(config *SQLiteConfig) (*SQLiteSource, error) {
	if config == nil {
		return nil, fmt.Errorf("source: config is required")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("source: database path cannot be empty")
	}
	if config.Table == "" && config.Query == "" {
		return nil, fmt.Errorf("source: either table or query must be set")
	}
	if config.OrderBy == "" {
		config.OrderBy = "rowid"
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("source: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", config.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("source: failed to set busy timeout: %w", err)
	}

	logger := slog.Default().With("component", "export.source.sqlite")
	logger.Debug("SQLite source opened",
		"path", config.Path,
		"table", config.Table,
	)

	return &SQLiteSource{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// Count returns the size of the result set.
func (s *SQLiteSource) Count(ctx context.Context) (int64, error) {
	var query string
	if s.config.Query != "" {
		query = fmt.Sprintf("SELECT COUNT(*) FROM (%s)", s.config.Query)
	} else {
		query = fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(s.config.Table))
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return count, nil
}

// Fetch returns the page of rows at offset, at most limit rows.
func (s *SQLiteSource) Fetch(ctx context.Context, offset, limit int64) ([]export.Row, error) {
	query := fmt.Sprintf("%s LIMIT %d OFFSET %d", s.selectStatement(), limit, offset)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var page []export.Row
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		page = append(page, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch iteration failed: %w", err)
	}
	return page, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// selectStatement builds the unpaginated SELECT for this source.
func (s *SQLiteSource) selectStatement() string {
	if s.config.Query != "" {
		return fmt.Sprintf("SELECT * FROM (%s)", s.config.Query)
	}

	cols := "*"
	if len(s.config.Columns) > 0 {
		quoted := make([]string, len(s.config.Columns))
		for i, c := range s.config.Columns {
			quoted[i] = quoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		cols, quoteIdent(s.config.Table), quoteIdent(s.config.OrderBy))
}

// scanRow scans the current result row into an export.Row. BLOB and
// TEXT values surface as []byte from the driver and are converted to
// strings so serializers see scalars.
func scanRow(rows *sql.Rows, columns []string) (export.Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	row := make(export.Row, len(columns))
	for i, col := range columns {
		switch v := values[i].(type) {
		case []byte:
			row[col] = string(v)
		default:
			row[col] = v
		}
	}
	return row, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
