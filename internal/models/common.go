package models

// IDResult acknowledges a write with the affected row id.
type IDResult struct {
	ID int64 `json:"id"`
}
