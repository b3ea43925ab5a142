package model

import "time"

// Question is one evaluated Q&A exchange within a completed interview.
// Rows are inserted in one batch at finalize time and never updated
// afterwards. OrderIndex is contiguous from 0 and matches the order the
// analysis produced.
type Question struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID  string    `json:"interview_id" gorm:"type:uuid;not null;index"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	UserAnswer   string    `json:"user_answer" gorm:"type:text;not null"`
	AIFeedback   string    `json:"ai_feedback" gorm:"type:text"`
	Score        int       `json:"score" gorm:"not null"`
	OrderIndex   int       `json:"order_index" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
