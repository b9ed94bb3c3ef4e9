package models

import "time"

// Setting is a persisted preference row, e.g. the console theme.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
