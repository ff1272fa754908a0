package model

// Assessment 及其题目/选项构成评分的权威数据（Catalog）

// swagger:model Assessment
type Assessment struct {
	UUIDBase
	Title     string     `gorm:"size:255;not null" json:"title"`
	CourseID  string     `gorm:"index;type:varchar(36)" json:"courseId"`
	Course    *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	MaxScore  int        `gorm:"default:0" json:"maxScore"` // 名义上等于题目数量
	Questions []Question `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model Question
type Question struct {
	UUIDBase
	AssessmentID string   `gorm:"index;type:varchar(36)" json:"assessmentId"`
	QuestionText string   `gorm:"type:text;not null" json:"questionText"`
	Options      []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36)" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}

// FindQuestion 在已加载的题目集合中按 ID 查找
func (a *Assessment) FindQuestion(questionID string) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == questionID {
			return &a.Questions[i]
		}
	}
	return nil
}

// FindOption 在已加载的选项集合中按 ID 查找
func (q *Question) FindOption(optionID string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}
