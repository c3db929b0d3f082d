package models

import "time"

// Section represents a class section with a display schedule string.
type Section struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Schedule  string    `db:"schedule" json:"schedule"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
