package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/attendance-api/internal/models"
)

// StatsRepository serves the aggregate counts behind the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountStudents returns the number of students, optionally restricted to a
// section.
func (r *StatsRepository) CountStudents(ctx context.Context, sectionID *int64) (int, error) {
	query := "SELECT COUNT(*) FROM students"
	args := []interface{}{}
	if sectionID != nil {
		query += " WHERE section_id = ?"
		args = append(args, *sectionID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// CountSections returns the total number of sections.
func (r *StatsRepository) CountSections(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sections"); err != nil {
		return 0, fmt.Errorf("count sections: %w", err)
	}
	return total, nil
}

// StatusCountsByDay groups the month's marks per calendar day with one
// count per status. Days without marks produce no row; the aggregator
// scaffolds the full month on top of this.
func (r *StatsRepository) StatusCountsByDay(ctx context.Context, month, year int, sectionID *int64) ([]models.DayStatusCount, error) {
	query := `SELECT a.date,
	COUNT(CASE WHEN a.status = 'P' THEN 1 END) AS present_count,
	COUNT(CASE WHEN a.status = 'L' THEN 1 END) AS late_count,
	COUNT(CASE WHEN a.status = 'A' THEN 1 END) AS absent_count
	FROM attendance a
	JOIN students s ON a.student_id = s.id
	WHERE strftime('%m-%Y', a.date) = ?`
	args := []interface{}{monthKey(month, year)}
	if sectionID != nil {
		query += " AND s.section_id = ?"
		args = append(args, *sectionID)
	}
	query += " GROUP BY a.date ORDER BY a.date"

	counts := []models.DayStatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count statuses by day: %w", err)
	}
	return counts, nil
}
