package repository

import (
	"github.com/lshigami/InterviewCoach/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	FindByID(id string) (*model.Interview, error)
	FindByIDWithQuestions(id string) (*model.Interview, error)
	FindAllByOwner(ownerID string) ([]model.Interview, error)
	Complete(interview *model.Interview) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) FindByID(id string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.First(&interview, "id = ?", id).Error
	return &interview, err
}

func (r *interviewRepository) FindByIDWithQuestions(id string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&interview, "id = ?", id).Error
	return &interview, err
}

func (r *interviewRepository) FindAllByOwner(ownerID string) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&interviews).Error
	return interviews, err
}

// Complete writes the finalize update: status, score, feedback and the
// serialized report, all in one statement so the all-or-nothing invariant
// on those columns holds.
func (r *interviewRepository) Complete(interview *model.Interview) error {
	return r.db.Model(&model.Interview{}).
		Where("id = ?", interview.ID).
		Updates(map[string]interface{}{
			"status":           interview.Status,
			"score":            interview.Score,
			"overall_feedback": interview.OverallFeedback,
			"analysis_report":  interview.AnalysisReport,
		}).Error
}
