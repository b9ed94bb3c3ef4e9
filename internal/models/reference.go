package models

type Region struct {
	Base
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	IsActive bool   `json:"is_active"`
}

type Ministry struct {
	Base
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	IsActive bool   `json:"is_active"`
}
