package repository

import (
	"edu_assess_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// CreateWithAnswers 在同一事务内写入 Result 及其全部 StudentAnswer
func (r *ResultRepository) CreateWithAnswers(result *model.Result) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
}

func (r *ResultRepository) FindByIDWithAnswers(id string) (*model.Result, error) {
	var result model.Result
	err := r.DB.Preload("StudentAnswers").First(&result, "id = ?", id).Error
	return &result, err
}

// FindByUserAndAssessment 返回该用户在该评测下的首条记录。
// 多次作答时取哪一条未作约定，与既有行为保持一致。
func (r *ResultRepository) FindByUserAndAssessment(userID, assessmentID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.Preload("StudentAnswers").
		First(&result, "user_id = ? AND assessment_id = ?", userID, assessmentID).Error
	return &result, err
}

func (r *ResultRepository) FindByAssessmentAndID(assessmentID, resultID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.Preload("StudentAnswers").Preload("User").
		First(&result, "id = ? AND assessment_id = ?", resultID, assessmentID).Error
	return &result, err
}

// ListByAssessment 按作答时间倒序返回某评测的全部提交
func (r *ResultRepository) ListByAssessment(assessmentID string) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Preload("StudentAnswers").Preload("User").
		Where("assessment_id = ?", assessmentID).
		Order("attempt_date desc").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListAll() ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Order("attempt_date desc").Find(&results).Error
	return results, err
}

// Replace 整体覆盖 score/user/assessment/attempt_date，不触碰 StudentAnswers。
// 行已被并发删除时返回 gorm.ErrRecordNotFound，不做重试。
func (r *ResultRepository) Replace(result *model.Result) error {
	res := r.DB.Model(&model.Result{}).
		Where("id = ?", result.ID).
		Updates(map[string]interface{}{
			"score":         result.Score,
			"user_id":       result.UserID,
			"assessment_id": result.AssessmentID,
			"attempt_date":  result.AttemptDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ResultRepository) Delete(id string) error {
	res := r.DB.Delete(&model.Result{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
