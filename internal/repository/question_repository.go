package repository

import (
	"github.com/lshigami/InterviewCoach/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateBatch(tx *gorm.DB, questions []model.Question) error
	FindAllByInterview(interviewID string) ([]model.Question, error)
	CountByInterview(interviewID string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// CreateBatch inserts the finalize batch using the caller's transaction
// handle so the whole set lands or none of it does.
func (r *questionRepository) CreateBatch(tx *gorm.DB, questions []model.Question) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(&questions).Error
}

func (r *questionRepository) FindAllByInterview(interviewID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("order_index ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) CountByInterview(interviewID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).
		Where("interview_id = ?", interviewID).
		Count(&count).Error
	return count, err
}
