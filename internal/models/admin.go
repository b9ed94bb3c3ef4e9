package models

type Admin struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	DiscordID    string `gorm:"index" json:"discord_id,omitempty"`
}
