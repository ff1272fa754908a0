package model

import "time"

// Result 一次评测提交的得分记录。同一 (user, assessment) 可存在多条记录，
// 每次提交都是一次独立的作答。
// swagger:model Result
type Result struct {
	UUIDBase
	AssessmentID   string          `gorm:"index;type:varchar(36)" json:"assessmentId"`
	Assessment     *Assessment     `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
	UserID         string          `gorm:"index;type:varchar(36)" json:"userId"`
	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Score          int             `gorm:"default:0" json:"score"`
	AttemptDate    time.Time       `json:"attemptDate"`
	StudentAnswers []StudentAnswer `gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE" json:"studentAnswers,omitempty"`
}

func (Result) TableName() string {
	return "results"
}

// StudentAnswer 单条已解析的作答记录。是否答对不落库，
// 读取时重新关联 Option.IsCorrect 推导。
// swagger:model StudentAnswer
type StudentAnswer struct {
	UUIDBase
	ResultID         string `gorm:"index;type:varchar(36)" json:"resultId"`
	QuestionID       string `gorm:"index;type:varchar(36)" json:"questionId"`
	SelectedOptionID string `gorm:"type:varchar(36)" json:"selectedOptionId"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
