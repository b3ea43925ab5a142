package dto

// CreateInterviewDTO is the request body for starting a new interview
// configuration. OwnerID is temporary until auth integration provides it.
type CreateInterviewDTO struct {
	OwnerID         string `json:"owner_id" binding:"required"`
	Field           string `json:"field" binding:"required"`
	Category        string `json:"category" binding:"required,oneof=Behavioral Technical 'Case Study' 'Cultural Fit'"`
	ExperienceLevel string `json:"experience_level" binding:"required,oneof='Entry Level' Intermediate Senior 'Lead/Executive'"`
}

// SubmitMessageDTO carries one candidate message for a live session.
type SubmitMessageDTO struct {
	Content string `json:"content" binding:"required"`
}

// AnalyzeRequestDTO is the wire request of the analyze endpoint: a
// hidden-excluded transcript plus the session metadata the analyst needs.
type AnalyzeRequestDTO struct {
	Transcript      string `json:"transcript" binding:"required"`
	Field           string `json:"field" binding:"required"`
	ExperienceLevel string `json:"experienceLevel" binding:"required"`
	Category        string `json:"category" binding:"required"`
}
