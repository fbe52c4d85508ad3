package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"wedding-registry/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS guests (
	name          TEXT PRIMARY KEY,
	side          TEXT NOT NULL CHECK (side IN ('Molly', 'James')),
	family        INTEGER NOT NULL,
	diet          TEXT,
	plus_one      INTEGER,
	plus_one_name TEXT,
	plus_one_diet TEXT
)`

const guestColumns = `name, side, family, diet, plus_one, plus_one_name, plus_one_diet`

// SQLiteStorage is a Registry backed by a private in-memory SQLite
// database. Its contents are gone once it is closed.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens a fresh in-memory database and creates the schema
func NewSQLiteStorage(ctx context.Context) (*SQLiteStorage, error) {
	// each instance gets its own shared-cache name so stores never see each other
	dsn := fmt.Sprintf("file:registry-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// the database lives as long as one connection stays open
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Close releases the database and everything in it
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Insert stores a guest whose name is not yet registered
func (s *SQLiteStorage) Insert(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if err := guest.Validate(); err != nil {
		return models.Guest{}, fmt.Errorf("failed to insert guest '%s': %w", guest.Name, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guests (`+guestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		guestArgs(guest)...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return models.Guest{}, fmt.Errorf("insert '%s': %w", guest.Name, ErrAlreadyExists)
		}
		return models.Guest{}, fmt.Errorf("failed to insert guest '%s': %w", guest.Name, err)
	}
	return guest.Clone(), nil
}

// Replace overwrites the row with the guest's name
func (s *SQLiteStorage) Replace(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if err := guest.Validate(); err != nil {
		return models.Guest{}, fmt.Errorf("failed to replace guest '%s': %w", guest.Name, err)
	}

	args := guestArgs(guest)
	res, err := s.db.ExecContext(ctx,
		`UPDATE guests SET side = ?, family = ?, diet = ?, plus_one = ?, plus_one_name = ?, plus_one_diet = ?
		 WHERE name = ?`,
		append(args[1:], args[0])...)
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to replace guest '%s': %w", guest.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to replace guest '%s': %w", guest.Name, err)
	}
	if n == 0 {
		return models.Guest{}, fmt.Errorf("replace '%s': %w", guest.Name, ErrNotFound)
	}
	return guest.Clone(), nil
}

// Get retrieves a guest by name
func (s *SQLiteStorage) Get(ctx context.Context, name string) (models.Guest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM guests WHERE name = ?`, name)
	g, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Guest{}, fmt.Errorf("get '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to load guest '%s': %w", name, err)
	}
	return g, nil
}

// List returns all guests in alphabetical order. Ordering happens in Go
// so both registries sort identically.
func (s *SQLiteStorage) List(ctx context.Context) ([]models.Guest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+guestColumns+` FROM guests`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	guests := make([]models.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}

	SortByName(guests)
	return guests, nil
}

// Reset deletes every row
func (s *SQLiteStorage) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM guests`); err != nil {
		return fmt.Errorf("failed to reset guests: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGuest(row scanner) (models.Guest, error) {
	var (
		g           models.Guest
		side        string
		diet        sql.NullString
		plusOne     sql.NullBool
		plusOneName sql.NullString
		plusOneDiet sql.NullString
	)
	if err := row.Scan(&g.Name, &side, &g.Family, &diet, &plusOne, &plusOneName, &plusOneDiet); err != nil {
		return models.Guest{}, err
	}
	g.Side = models.Side(side)
	if diet.Valid {
		g.Diet = models.String(diet.String)
	}
	if plusOne.Valid {
		g.PlusOne = models.Bool(plusOne.Bool)
	}
	if plusOneName.Valid {
		g.PlusOneName = models.String(plusOneName.String)
	}
	if plusOneDiet.Valid {
		g.PlusOneDiet = models.String(plusOneDiet.String)
	}
	return g, nil
}

func guestArgs(g models.Guest) []any {
	return []any{
		g.Name,
		string(g.Side),
		g.Family,
		nullString(g.Diet),
		nullBool(g.PlusOne),
		nullString(g.PlusOneName),
		nullString(g.PlusOneDiet),
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
