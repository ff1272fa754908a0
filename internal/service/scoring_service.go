package service

import (
	"context"
	"edu_assess_backend/internal/model"
	"edu_assess_backend/internal/repository"
	"edu_assess_backend/internal/util"
	"edu_assess_backend/pkg/logger"
	"edu_assess_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScoringService 将学生提交的作答与 Catalog 比对并计分。
// 解析不到的作答静默丢弃：畸形或过期的提交仍会得到一个诚实的部分得分，
// 而不是整单被拒。
type ScoringService struct {
	Assessments *repository.AssessmentRepository
	Results     *repository.ResultRepository
	Users       *repository.UserRepository
}

func NewScoringService(assessments *repository.AssessmentRepository, results *repository.ResultRepository, users *repository.UserRepository) *ScoringService {
	return &ScoringService{Assessments: assessments, Results: results, Users: users}
}

type AnswerSubmission struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId" binding:"required"`
}

type SubmissionRequest struct {
	AssessmentID string             `json:"assessmentId" binding:"required"`
	UserID       string             `json:"userId" binding:"required"`
	Answers      []AnswerSubmission `json:"answers"`
}

type RecordedAnswer struct {
	QuestionID       string `json:"questionId"`
	SelectedOptionID string `json:"selectedOptionId"`
}

type SubmissionResult struct {
	ResultID       string           `json:"resultId"`
	Score          int              `json:"score"`
	AttemptDate    time.Time        `json:"attemptDate"`
	StudentAnswers []RecordedAnswer `json:"studentAnswers"`
}

type resolvedAnswer struct {
	question *model.Question
	option   *model.Option
}

// resolveAnswer 在已加载的评测图中解析一条作答。题目不属于该评测、
// 或选项不属于该题目时解析失败，这条作答既不计分也不落库。
func resolveAnswer(assessment *model.Assessment, ans AnswerSubmission) (resolvedAnswer, bool) {
	q := assessment.FindQuestion(ans.QuestionID)
	if q == nil {
		return resolvedAnswer{}, false
	}
	o := q.FindOption(ans.SelectedOptionID)
	if o == nil {
		return resolvedAnswer{}, false
	}
	return resolvedAnswer{question: q, option: o}, true
}

// Submit 对一次提交评分并生成 Result 及其 StudentAnswer 记录。
// 每条作答独立解析：同一题目出现多条作答会产生多条记录（沿用既有行为）。
// 每次调用都生成一条新的 Result，不限制同一 (user, assessment) 的作答次数。
func (s *ScoringService) Submit(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error) {
	assessment, err := s.Assessments.LoadAssessmentWithQuestionsAndOptions(ctx, req.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	exists, err := s.Users.Exists(req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}

	result := &model.Result{
		UUIDBase:       model.UUIDBase{ID: model.GenerateUUID()},
		AssessmentID:   assessment.ID,
		UserID:         req.UserID,
		AttemptDate:    time.Now().UTC(),
		StudentAnswers: make([]model.StudentAnswer, 0, len(req.Answers)),
	}

	score := 0
	dropped := 0
	for _, ans := range req.Answers {
		ra, ok := resolveAnswer(assessment, ans)
		if !ok {
			dropped++
			continue
		}
		if ra.option.IsCorrect {
			score++
		}
		result.StudentAnswers = append(result.StudentAnswers, model.StudentAnswer{
			UUIDBase:         model.UUIDBase{ID: model.GenerateUUID()},
			ResultID:         result.ID,
			QuestionID:       ra.question.ID,
			SelectedOptionID: ra.option.ID,
		})
	}
	result.Score = score

	if err := s.Results.CreateWithAnswers(result); err != nil {
		return nil, err
	}

	if dropped > 0 {
		logger.Log.Debug("dropped unresolvable answers during scoring",
			zap.String("resultId", result.ID),
			zap.String("assessmentId", assessment.ID),
			zap.Int("dropped", dropped))
	}
	monitoring.SubmissionCounter.WithLabelValues(assessment.ID).Inc()

	recorded := make([]RecordedAnswer, len(result.StudentAnswers))
	for i, sa := range result.StudentAnswers {
		recorded[i] = RecordedAnswer{
			QuestionID:       sa.QuestionID,
			SelectedOptionID: sa.SelectedOptionID,
		}
	}

	return &SubmissionResult{
		ResultID:       result.ID,
		Score:          result.Score,
		AttemptDate:    result.AttemptDate,
		StudentAnswers: recorded,
	}, nil
}

func (s *ScoringService) GetResult(id string) (*model.Result, error) {
	result, err := s.Results.FindByIDWithAnswers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *ScoringService) ListResults() ([]model.Result, error) {
	return s.Results.ListAll()
}

type ResultUpdateRequest struct {
	ResultID     string    `json:"resultId" binding:"required"`
	AssessmentID string    `json:"assessmentId" binding:"required"`
	UserID       string    `json:"userId" binding:"required"`
	Score        int       `json:"score"`
	AttemptDate  time.Time `json:"attemptDate"`
}

// ReplaceResult 覆盖 score/user/assessment/attemptDate，不触碰 StudentAnswers，
// 也不重新评分（与 Submit 不对称，这是一条人工更正通道）。
func (s *ScoringService) ReplaceResult(id string, req ResultUpdateRequest) error {
	result := &model.Result{
		UUIDBase:     model.UUIDBase{ID: id},
		AssessmentID: req.AssessmentID,
		UserID:       req.UserID,
		Score:        req.Score,
		AttemptDate:  req.AttemptDate,
	}
	err := s.Results.Replace(result)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrResultNotFound
	}
	return err
}

func (s *ScoringService) DeleteResult(id string) error {
	err := s.Results.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrResultNotFound
	}
	return err
}
