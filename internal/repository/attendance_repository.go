package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/attendance-api/internal/models"
)

// AttendanceRepository is the ledger: it exclusively owns writes and
// deletes of attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const markDetailColumns = `a.id, a.student_id, a.date, a.status, a.created_at,
	s.name AS student_name, s.student_id AS student_code, s.section_id`

// MarksByMonth returns every existing mark in the given calendar month,
// joined with student display fields.
func (r *AttendanceRepository) MarksByMonth(ctx context.Context, month, year int, sectionID *int64) ([]models.MarkDetail, error) {
	query := fmt.Sprintf(`SELECT %s
	FROM attendance a
	JOIN students s ON a.student_id = s.id
	WHERE strftime('%%m-%%Y', a.date) = ?`, markDetailColumns)
	args := []interface{}{monthKey(month, year)}
	if sectionID != nil {
		query += " AND s.section_id = ?"
		args = append(args, *sectionID)
	}
	query += " ORDER BY a.date, s.id"

	marks := []models.MarkDetail{}
	if err := r.db.SelectContext(ctx, &marks, query, args...); err != nil {
		return nil, fmt.Errorf("list marks by month: %w", err)
	}
	return marks, nil
}

// MarksByRange returns marks inside the inclusive [start, end] date
// interval. Unlike the month grid, days without a mark do not appear.
func (r *AttendanceRepository) MarksByRange(ctx context.Context, start, end string, sectionID *int64) ([]models.MarkDetail, error) {
	query := fmt.Sprintf(`SELECT %s
	FROM attendance a
	JOIN students s ON a.student_id = s.id
	WHERE a.date BETWEEN ? AND ?`, markDetailColumns)
	args := []interface{}{start, end}
	if sectionID != nil {
		query += " AND s.section_id = ?"
		args = append(args, *sectionID)
	}
	query += " ORDER BY a.date, s.id"

	marks := []models.MarkDetail{}
	if err := r.db.SelectContext(ctx, &marks, query, args...); err != nil {
		return nil, fmt.Errorf("list marks by range: %w", err)
	}
	return marks, nil
}

// Mark applies one ledger operation atomically. An unmarked status deletes
// the (student, date) row — idempotently, deleting nothing is fine. Any
// real status inserts or replaces the row, and the final id is re-read
// inside the same transaction so the caller observes the committed state.
func (r *AttendanceRepository) Mark(ctx context.Context, studentID int64, date string, status models.Status) (*models.MarkResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mark: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if status == models.StatusUnmarked {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE student_id = ? AND date = ?`, studentID, date); err != nil {
			return nil, fmt.Errorf("delete mark: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit mark delete: %w", err)
		}
		committed = true
		return &models.MarkResult{Action: models.MarkActionDeleted}, nil
	}

	const upsert = `INSERT INTO attendance (student_id, date, status) VALUES (?, ?, ?)
	ON CONFLICT (student_id, date) DO UPDATE SET status = excluded.status`
	if _, err := tx.ExecContext(ctx, upsert, studentID, date, status); err != nil {
		return nil, fmt.Errorf("upsert mark: %w", err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, `SELECT id FROM attendance WHERE student_id = ? AND date = ?`, studentID, date); err != nil {
		return nil, fmt.Errorf("read back mark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mark: %w", err)
	}
	committed = true
	return &models.MarkResult{Action: models.MarkActionUpdated, ID: &id}, nil
}

// monthKey renders the month filter the way the date column is matched:
// strftime('%m-%Y') over TEXT dates, e.g. "03-2024".
func monthKey(month, year int) string {
	return fmt.Sprintf("%02d-%04d", month, year)
}
