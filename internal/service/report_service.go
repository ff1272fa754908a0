package service

import (
	"context"
	"edu_assess_backend/internal/model"
	"edu_assess_backend/internal/repository"
	"edu_assess_backend/internal/util"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

// ReportService 读侧视图：把落库的 Result 重新关联当前 Catalog，
// 还原出可读的成绩报告。正确性永远在读取时重新推导，不使用落库快照。
type ReportService struct {
	Assessments *repository.AssessmentRepository
	Results     *repository.ResultRepository
	Users       *repository.UserRepository
}

func NewReportService(assessments *repository.AssessmentRepository, results *repository.ResultRepository, users *repository.UserRepository) *ReportService {
	return &ReportService{Assessments: assessments, Results: results, Users: users}
}

type AnswerView struct {
	QuestionID         string `json:"questionId"`
	QuestionText       string `json:"questionText"`
	SelectedOptionID   string `json:"selectedOptionId"`
	SelectedOptionText string `json:"selectedOptionText"`
	IsCorrect          bool   `json:"isCorrect"`
}

type StudentResultView struct {
	ResultID        string       `json:"resultId"`
	UserName        string       `json:"userName"`
	AssessmentTitle string       `json:"assessmentTitle"`
	Score           int          `json:"score"`
	MaxScore        int          `json:"maxScore"`
	AttemptDate     time.Time    `json:"attemptDate"`
	Answers         []AnswerView `json:"answers"`
}

type SubmissionSummary struct {
	ResultID    string    `json:"resultId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"maxScore"`
	AttemptDate time.Time `json:"attemptDate"`
	AnswerCount int       `json:"answerCount"`
	Percentage  float64   `json:"percentage"`
}

type OptionView struct {
	OptionID  string `json:"optionId"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type DetailedAnswerView struct {
	AnswerView
	AllOptions []OptionView `json:"allOptions"`
}

type DetailedSubmissionView struct {
	ResultID        string               `json:"resultId"`
	UserID          string               `json:"userId"`
	UserName        string               `json:"userName"`
	AssessmentTitle string               `json:"assessmentTitle"`
	Score           int                  `json:"score"`
	MaxScore        int                  `json:"maxScore"`
	Percentage      float64              `json:"percentage"`
	AttemptDate     time.Time            `json:"attemptDate"`
	Answers         []DetailedAnswerView `json:"answers"`
}

// Percentage 按当前题目数折算百分比，保留两位小数；无题目时为 0
func Percentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(maxScore)*100*100) / 100
}

// enrichAnswer 纯投影：(StudentAnswer, 当前 Catalog) → 可读视图。
// 选项在全卷范围内查找；题目或选项已被删掉时文本为空、IsCorrect 为 false。
func enrichAnswer(assessment *model.Assessment, sa model.StudentAnswer) AnswerView {
	view := AnswerView{
		QuestionID:       sa.QuestionID,
		SelectedOptionID: sa.SelectedOptionID,
	}

	if q := assessment.FindQuestion(sa.QuestionID); q != nil {
		view.QuestionText = q.QuestionText
	}
	if o := findOptionAcrossQuestions(assessment, sa.SelectedOptionID); o != nil {
		view.SelectedOptionText = o.Text
		view.IsCorrect = o.IsCorrect
	}

	return view
}

func findOptionAcrossQuestions(assessment *model.Assessment, optionID string) *model.Option {
	for i := range assessment.Questions {
		if o := assessment.Questions[i].FindOption(optionID); o != nil {
			return o
		}
	}
	return nil
}

// GetStudentResult 返回某用户在某评测下的首条成绩报告。
// MaxScore 取评测当前的题目数（live join），提交后改卷会导致口径漂移。
func (s *ReportService) GetStudentResult(ctx context.Context, userID, assessmentID string) (*StudentResultView, error) {
	result, err := s.Results.FindByUserAndAssessment(userID, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	assessment, err := s.Assessments.LoadAssessmentWithQuestionsAndOptions(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	answers := make([]AnswerView, len(result.StudentAnswers))
	for i, sa := range result.StudentAnswers {
		answers[i] = enrichAnswer(assessment, sa)
	}

	return &StudentResultView{
		ResultID:        result.ID,
		UserName:        user.Name,
		AssessmentTitle: assessment.Title,
		Score:           result.Score,
		MaxScore:        len(assessment.Questions),
		AttemptDate:     result.AttemptDate,
		Answers:         answers,
	}, nil
}

// ListSubmissions 教师视角：某评测的全部提交，按作答时间倒序
func (s *ReportService) ListSubmissions(ctx context.Context, assessmentID string) ([]SubmissionSummary, error) {
	assessment, err := s.Assessments.FindAssessmentWithQuestions(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	results, err := s.Results.ListByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	maxScore := len(assessment.Questions)
	summaries := make([]SubmissionSummary, len(results))
	for i, r := range results {
		userName := ""
		if r.User != nil {
			userName = r.User.Name
		}
		summaries[i] = SubmissionSummary{
			ResultID:    r.ID,
			UserID:      r.UserID,
			UserName:    userName,
			Score:       r.Score,
			MaxScore:    maxScore,
			AttemptDate: r.AttemptDate,
			AnswerCount: len(r.StudentAnswers),
			Percentage:  Percentage(r.Score, maxScore),
		}
	}
	return summaries, nil
}

// GetDetailedSubmission 教师视角：单次提交的逐题明细，
// 每条作答附带该题的完整选项列表及正确标记，供审阅界面展示
func (s *ReportService) GetDetailedSubmission(ctx context.Context, assessmentID, resultID string) (*DetailedSubmissionView, error) {
	result, err := s.Results.FindByAssessmentAndID(assessmentID, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	assessment, err := s.Assessments.LoadAssessmentWithQuestionsAndOptions(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	answers := make([]DetailedAnswerView, len(result.StudentAnswers))
	for i, sa := range result.StudentAnswers {
		detail := DetailedAnswerView{AnswerView: enrichAnswer(assessment, sa)}
		if q := assessment.FindQuestion(sa.QuestionID); q != nil {
			detail.AllOptions = make([]OptionView, len(q.Options))
			for j, o := range q.Options {
				detail.AllOptions[j] = OptionView{
					OptionID:  o.ID,
					Text:      o.Text,
					IsCorrect: o.IsCorrect,
				}
			}
		}
		answers[i] = detail
	}

	userName := ""
	if result.User != nil {
		userName = result.User.Name
	}

	maxScore := len(assessment.Questions)
	return &DetailedSubmissionView{
		ResultID:        result.ID,
		UserID:          result.UserID,
		UserName:        userName,
		AssessmentTitle: assessment.Title,
		Score:           result.Score,
		MaxScore:        maxScore,
		Percentage:      Percentage(result.Score, maxScore),
		AttemptDate:     result.AttemptDate,
		Answers:         answers,
	}, nil
}
