package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/attendance-api/internal/models"
)

// SectionRepository manages persistence for section records.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns all sections, most recently inserted first.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT id, name, schedule, created_at FROM sections ORDER BY id DESC`
	sections := []models.Section{}
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID fetches a single section.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT id, name, schedule, created_at FROM sections WHERE id = ? LIMIT 1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Create inserts a new section and fills in its generated id.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO sections (name, schedule) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, section.Name, section.Schedule)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create section id: %w", err)
	}
	section.ID = id
	return nil
}

// Update replaces the mutable fields of a section.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	const query = `UPDATE sections SET name = ?, schedule = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, section.Name, section.Schedule, section.ID); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section unconditionally. Students referencing it keep
// their section_id; the reference dangles rather than being nulled.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sections WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
