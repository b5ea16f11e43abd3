package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/store"
)

var _ store.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db     *sqlx.DB
	path   string
	logger *applog.Logger
}

// Option customizes a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithLogger sets the logger for load and save records.
func WithLogger(logger *applog.Logger) Option {
	return func(r *SQLiteRepository) { r.logger = logger.WithComponent(applog.ComponentStorage) }
}

// activityRow is the activities table layout. position is the 1-based
// place of the activity in the collection.
type activityRow struct {
	Position    int    `db:"position"`
	Date        string `db:"date"`
	Category    string `db:"category"`
	Description string `db:"description"`
	Impact      string `db:"impact"`
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	r := &SQLiteRepository{db: db, path: dbPath, logger: applog.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements store.Loader
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Activity, error) {
	var rows []activityRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT position, date, category, description, impact FROM activities ORDER BY position`)
	if err != nil {
		return nil, &store.CorruptError{Location: r.path, Err: fmt.Errorf("select activities: %w", err)}
	}

	out := make([]core.Activity, len(rows))
	for i, row := range rows {
		out[i] = core.Activity{
			Date:        row.Date,
			Category:    row.Category,
			Description: row.Description,
			Impact:      row.Impact,
		}
	}

	r.logger.DebugContext(ctx, "Activities loaded from SQLite",
		append(applog.NewFields().WithOperation(applog.OpLoad).WithCount(len(out)).ToSlice(), "path", r.path)...)
	return out, nil
}

// Save implements store.Saver. The table is replaced inside one
// transaction so readers see either the old or the new collection.
func (r *SQLiteRepository) Save(ctx context.Context, activities []core.Activity) error {
	if err := r.replaceAll(ctx, activities); err != nil {
		return &store.WriteError{Location: r.path, Err: err}
	}

	r.logger.DebugContext(ctx, "Activities saved to SQLite",
		append(applog.NewFields().WithOperation(applog.OpSave).WithCount(len(activities)).ToSlice(), "path", r.path)...)
	return nil
}

func (r *SQLiteRepository) replaceAll(ctx context.Context, activities []core.Activity) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}

	for i, a := range activities {
		row := activityRow{
			Position:    i + 1,
			Date:        a.Date,
			Category:    a.Category,
			Description: a.Description,
			Impact:      a.Impact,
		}
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO activities (position, date, category, description, impact)
			 VALUES (:position, :date, :category, :description, :impact)`, row)
		if err != nil {
			return fmt.Errorf("insert activity %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
