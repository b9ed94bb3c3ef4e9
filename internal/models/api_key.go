package models

import (
	"time"
)

type APIKey struct {
	Base
	AdminID    string     `gorm:"size:36;index" json:"admin_id"`
	Admin      Admin      `json:"-"`
	Key        string     `json:"key" gorm:"uniqueIndex"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
