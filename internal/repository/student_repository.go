package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/attendance-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students left-joined with their section, most recently
// inserted first. A nil sectionID returns every student.
func (r *StudentRepository) List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error) {
	query := `SELECT s.id, s.student_id, s.name, s.section_id, s.schedule, s.created_at,
	sec.name AS section_name, sec.schedule AS section_schedule
	FROM students s
	LEFT JOIN sections sec ON s.section_id = sec.id`
	args := []interface{}{}
	if sectionID != nil {
		query += " WHERE s.section_id = ?"
		args = append(args, *sectionID)
	}
	query += " ORDER BY s.id DESC"

	students := []models.StudentDetail{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a single student with section detail.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.student_id, s.name, s.section_id, s.schedule, s.created_at,
	sec.name AS section_name, sec.schedule AS section_schedule
	FROM students s
	LEFT JOIN sections sec ON s.section_id = sec.id
	WHERE s.id = ? LIMIT 1`
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByCode checks whether a student with the given external identifier
// exists, optionally excluding one row id (for updates).
func (r *StudentRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_id = ?"
	args := []interface{}{code}
	if excludeID > 0 {
		query += " AND id <> ?"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student code: %w", err)
	}
	return true, nil
}

// Create inserts a new student and fills in its generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (student_id, name, section_id, schedule) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, student.Code, student.Name, student.SectionID, student.Schedule)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student id: %w", err)
	}
	student.ID = id
	return nil
}

// Update replaces the mutable fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET student_id = ?, name = ?, section_id = ?, schedule = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, student.Code, student.Name, student.SectionID, student.Schedule, student.ID); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student together with all of its attendance marks in a
// single transaction, so no orphaned marks survive the student.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE student_id = ?`, id); err != nil {
		return fmt.Errorf("delete student marks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	committed = true
	return nil
}
