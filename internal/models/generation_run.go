package models

import "time"

const (
	FlowAnalysis = "analysis"
	FlowCommit   = "commit"
)

// GenerationRun is one persisted flow outcome, listed by the history command.
type GenerationRun struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"size:36;uniqueIndex"`
	Flow        string `gorm:"size:20;not null;index"`
	Mode        string `gorm:"size:20"`
	Workspace   string `gorm:"size:1024"`
	Provider    string `gorm:"size:50"`
	Model       string `gorm:"size:120"`
	PromptChars int
	Output      string `gorm:"type:text"`
	CreatedAt   time.Time
}
