package models

import "time"

// User represents an application user stored in the users table. Users exist
// only to gate the login screen; they are never updated or deleted.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserInfo is the public projection returned after a successful login.
type UserInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
