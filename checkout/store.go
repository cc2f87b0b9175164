package checkout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store owns the SQLite connection and the schema. Every operation in this
// package hangs off it; nothing else in the process touches the database.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the SQLite database at path, applies the schema,
// and returns a ready Store. Foreign-key enforcement is off by default in
// SQLite, so the DSN turns it on explicitly; without it the RESTRICT clauses
// on loans are silently ignored.
func Open(path string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection.
func (s *Store) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// InitSchema creates the three tables and the loan indexes if they are
// absent. Safe to call any number of times; existing rows are untouched.
func (s *Store) InitSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS items (
            item_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            category TEXT NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('available','checked_out'))
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            loan_id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            item_id INTEGER NOT NULL,
            checkout_date TEXT NOT NULL,
            due_date TEXT NOT NULL,
            returned_date TEXT,
            FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE RESTRICT,
            FOREIGN KEY (item_id) REFERENCES items(item_id) ON DELETE RESTRICT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_loans_user_id ON loans(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_loans_item_id ON loans(item_id);`,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Seed data
// ---------------------------------------------------------------------------

// Seed inserts a small demonstration data set: three users and four items.
// Safe to re-run: duplicate-key failures are swallowed per batch, any other
// failure propagates. Users dedupe on email; items carry no unique key, so
// each run appends another batch of them.
func (s *Store) Seed() error {
	users := []User{
		{Name: "Alice Johnson", Email: "alice@example.com"},
		{Name: "Brian Lee", Email: "brian@example.com"},
		{Name: "Chen Wu", Email: "chen@example.com"},
	}
	items := []Item{
		{Name: "Laptop", Category: "Computers", Status: StatusAvailable},
		{Name: "DSLR Camera", Category: "Photography", Status: StatusAvailable},
		{Name: "Tripod", Category: "Photography", Status: StatusAvailable},
		{Name: "Tablet", Category: "Computers", Status: StatusAvailable},
	}

	if err := s.seedUsers(users); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedItems(items); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("seed items: %w", err)
	}
	return nil
}

func (s *Store) seedUsers(users []User) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range users {
		if _, err := tx.NamedExec(`INSERT INTO users(name,email) VALUES (:name,:email)`, u); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) seedItems(items []Item) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, it := range items {
		if _, err := tx.NamedExec(`INSERT INTO items(name,category,status) VALUES (:name,:category,:status)`, it); err != nil {
			return err
		}
	}
	return tx.Commit()
}
