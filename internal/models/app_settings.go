package models

import "time"

type AppSettings struct {
	ID        uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version   int    `gorm:"not null;default:1"`
	Provider  string `gorm:"size:50;not null;default:openai"`
	Model     string `gorm:"size:120"`
	BaseURL   string `gorm:"size:512"`
	Locale    string `gorm:"size:8;not null;default:pt"` // "pt" | "en"
	UpdatedAt time.Time
}
