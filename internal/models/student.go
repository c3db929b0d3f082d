package models

import "time"

// Student represents an enrolled student. Code is the external identifier
// (the "student_id" the registrar hands out), unique across the table.
// SectionID is nullable: a student may be unassigned. Schedule is a
// denormalized copy of the section schedule taken at assignment time.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"student_id" json:"student_id"`
	Name      string    `db:"name" json:"name"`
	SectionID *int64    `db:"section_id" json:"section_id"`
	Schedule  string    `db:"schedule" json:"schedule"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail is a student row left-joined with its section, so
// unassigned students still appear with null section fields.
type StudentDetail struct {
	Student
	SectionName     *string `db:"section_name" json:"section_name"`
	SectionSchedule *string `db:"section_schedule" json:"section_schedule"`
}
