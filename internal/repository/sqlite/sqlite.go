package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkerrall/waypost/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and exposes the repositories backed by it.
type DB struct {
	SqlDB *sql.DB

	users    *UserRepository
	sessions *SessionRepository
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL improves concurrent read behavior.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{
		SqlDB:    db,
		users:    &UserRepository{db: db},
		sessions: &SessionRepository{db: db},
	}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the user repository.
func (d *DB) Users() *UserRepository { return d.users }

// Sessions returns the session repository.
func (d *DB) Sessions() *SessionRepository { return d.sessions }
