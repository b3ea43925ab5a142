package model

import (
	"time"
)

// Interview status values. The transition is one-directional:
// in_progress -> completed. There is no way back.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Interview categories and experience levels accepted at creation time.
var (
	ValidCategories       = []string{"Behavioral", "Technical", "Case Study", "Cultural Fit"}
	ValidExperienceLevels = []string{"Entry Level", "Intermediate", "Senior", "Lead/Executive"}
)

// Interview is one simulated interview session. Score, OverallFeedback and
// AnalysisReport are all nil until the session is finalized, then all set
// together in a single update.
type Interview struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID         string     `json:"owner_id" gorm:"not null;index"`
	Field           string     `json:"field" gorm:"not null"`
	Category        string     `json:"category" gorm:"not null"` // "Behavioral", "Technical", "Case Study", "Cultural Fit"
	ExperienceLevel string     `json:"experience_level" gorm:"not null"`
	Status          string     `json:"status" gorm:"default:'in_progress';index"`
	Score           *int       `json:"score,omitempty"`
	OverallFeedback *string    `json:"overall_feedback,omitempty" gorm:"type:text"`
	AnalysisReport  []byte     `json:"-" gorm:"type:jsonb"`
	Questions       []Question `json:"questions,omitempty" gorm:"foreignKey:InterviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Completed reports whether the interview has been finalized.
func (i *Interview) Completed() bool {
	return i.Status == StatusCompleted
}

// IsValidCategory checks a category against the accepted set.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidExperienceLevel checks a level against the accepted set.
func IsValidExperienceLevel(level string) bool {
	for _, l := range ValidExperienceLevels {
		if l == level {
			return true
		}
	}
	return false
}
