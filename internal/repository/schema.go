package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Table DDL. The attendance table carries a real UNIQUE(student_id, date)
// constraint; "at most one mark per student per day" is not left to
// application discipline.
const (
	createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	email TEXT UNIQUE,
	password TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

	createSectionsTable = `CREATE TABLE IF NOT EXISTS sections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	schedule TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

	createStudentsTable = `CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	section_id INTEGER REFERENCES sections (id),
	schedule TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

	createAttendanceTable = `CREATE TABLE IF NOT EXISTS attendance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id INTEGER NOT NULL REFERENCES students (id),
	date TEXT NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('P', 'L', 'A')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (student_id, date)
)`
)

// SchemaManager owns table lifecycle for the four application tables.
type SchemaManager struct {
	db *sqlx.DB
}

// NewSchemaManager constructs a SchemaManager.
func NewSchemaManager(db *sqlx.DB) *SchemaManager {
	return &SchemaManager{db: db}
}

// EnsureSchema idempotently creates any missing tables. It never drops
// anything, so a normal start preserves existing data. Callers are expected
// to treat a failure as fatal.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{createUsersTable, createSectionsTable, createStudentsTable, createAttendanceTable} {
		if _, err := m.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ResetAttendance drops and recreates only the attendance table. Users,
// sections and students are untouched.
func (m *SchemaManager) ResetAttendance(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `DROP TABLE IF EXISTS attendance`); err != nil {
		return fmt.Errorf("drop attendance table: %w", err)
	}
	if _, err := m.db.ExecContext(ctx, createAttendanceTable); err != nil {
		return fmt.Errorf("recreate attendance table: %w", err)
	}
	return nil
}

// Recreate drops and recreates all four tables. Destroys everything; only
// the seed generator calls this.
func (m *SchemaManager) Recreate(ctx context.Context) error {
	for _, table := range []string{"attendance", "students", "sections", "users"} {
		if _, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("drop %s table: %w", table, err)
		}
	}
	return m.EnsureSchema(ctx)
}
