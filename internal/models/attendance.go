package models

import "time"

// Status is a per-day attendance mark.
type Status string

const (
	StatusPresent Status = "P"
	StatusLate    Status = "L"
	StatusAbsent  Status = "A"
	// StatusUnmarked clears an existing mark when submitted to the ledger.
	StatusUnmarked Status = ""
)

// Valid reports whether the status names a real mark.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// DateLayout is the calendar-day format used everywhere: in the attendance
// table, in API payloads and in query parameters. No time component.
const DateLayout = "2006-01-02"

// Mark is one attendance row: one student, one day, one status.
type Mark struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Date      string    `db:"date" json:"date"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MarkDetail is a mark joined with the owning student's display fields.
type MarkDetail struct {
	Mark
	StudentName string `db:"student_name" json:"student_name"`
	StudentCode string `db:"student_code" json:"student_code"`
	SectionID   *int64 `db:"section_id" json:"section_id"`
}

// GridRow is one cell of the month grid the attendance page renders: every
// student crossed with every calendar day, Status nil where no mark exists.
type GridRow struct {
	StudentID   int64   `json:"student_id"`
	StudentCode string  `json:"student_code"`
	StudentName string  `json:"student_name"`
	SectionID   *int64  `json:"section_id"`
	Date        string  `json:"date"`
	Status      *Status `json:"status"`
}

// MarkResult reports what the ledger did with a mark request. ID is nil
// when the mark was deleted.
type MarkResult struct {
	Action string `json:"action"`
	ID     *int64 `json:"id"`
}

const (
	MarkActionUpdated = "updated"
	MarkActionDeleted = "deleted"
)
