package service

import (
	"context"
	"fmt"
	"testing"

	"edu_assess_backend/internal/model"
	"edu_assess_backend/internal/repository"
	"edu_assess_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Assessment{},
		&model.Question{},
		&model.Option{},
		&model.Result{},
		&model.StudentAnswer{},
	))
	return db
}

func newScoringService(db *gorm.DB) *ScoringService {
	return NewScoringService(
		repository.NewAssessmentRepository(db, nil),
		repository.NewResultRepository(db),
		repository.NewUserRepository(db),
	)
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hash",
		Role:     model.Student,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedAssessment 创建 questionCount 道题，每题 1 个正确选项 + 2 个错误选项，
// 返回加载完整 题目→选项 图的评测
func seedAssessment(t *testing.T, db *gorm.DB, questionCount int) *model.Assessment {
	t.Helper()
	assessment := &model.Assessment{
		Title:    "Algebra Basics",
		MaxScore: questionCount,
	}
	require.NoError(t, db.Create(assessment).Error)

	for i := 1; i <= questionCount; i++ {
		q := &model.Question{
			AssessmentID: assessment.ID,
			QuestionText: fmt.Sprintf("Question %d", i),
		}
		require.NoError(t, db.Create(q).Error)
		require.NoError(t, db.Create(&model.Option{QuestionID: q.ID, Text: "right", IsCorrect: true}).Error)
		require.NoError(t, db.Create(&model.Option{QuestionID: q.ID, Text: "wrong a"}).Error)
		require.NoError(t, db.Create(&model.Option{QuestionID: q.ID, Text: "wrong b"}).Error)
	}

	loaded, err := repository.NewAssessmentRepository(db, nil).
		LoadAssessmentWithQuestionsAndOptions(context.Background(), assessment.ID)
	require.NoError(t, err)
	return loaded
}

func correctOption(t *testing.T, q *model.Question) *model.Option {
	t.Helper()
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	t.Fatalf("question %s has no correct option", q.ID)
	return nil
}

func wrongOption(t *testing.T, q *model.Question) *model.Option {
	t.Helper()
	for i := range q.Options {
		if !q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	t.Fatalf("question %s has no wrong option", q.ID)
	return nil
}

func TestResolveAnswer(t *testing.T) {
	assessment := &model.Assessment{
		Questions: []model.Question{
			{
				UUIDBase: model.UUIDBase{ID: "q1"},
				Options: []model.Option{
					{UUIDBase: model.UUIDBase{ID: "o1"}, IsCorrect: true},
					{UUIDBase: model.UUIDBase{ID: "o2"}},
				},
			},
			{
				UUIDBase: model.UUIDBase{ID: "q2"},
				Options: []model.Option{
					{UUIDBase: model.UUIDBase{ID: "o3"}},
				},
			},
		},
	}

	tests := []struct {
		name       string
		questionID string
		optionID   string
		ok         bool
	}{
		{name: "known question and option", questionID: "q1", optionID: "o2", ok: true},
		{name: "unknown question", questionID: "missing", optionID: "o1", ok: false},
		{name: "unknown option", questionID: "q1", optionID: "missing", ok: false},
		{name: "option belongs to another question", questionID: "q2", optionID: "o1", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ra, ok := resolveAnswer(assessment, AnswerSubmission{
				QuestionID:       tc.questionID,
				SelectedOptionID: tc.optionID,
			})
			if ok != tc.ok {
				t.Fatalf("resolveAnswer ok = %v, want %v", ok, tc.ok)
			}
			if ok && (ra.question.ID != tc.questionID || ra.option.ID != tc.optionID) {
				t.Fatalf("resolved (%s, %s), want (%s, %s)", ra.question.ID, ra.option.ID, tc.questionID, tc.optionID)
			}
		})
	}
}

func TestSubmitScoresResolvedAnswersAndDropsTheRest(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "alice")
	assessment := seedAssessment(t, db, 3)

	req := SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Answers: []AnswerSubmission{
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: correctOption(t, &assessment.Questions[0]).ID},
			{QuestionID: assessment.Questions[1].ID, SelectedOptionID: correctOption(t, &assessment.Questions[1]).ID},
			{QuestionID: assessment.Questions[2].ID, SelectedOptionID: "nonexistent-option"},
		},
	}

	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Score)
	assert.Len(t, res.StudentAnswers, 2)
	assert.False(t, res.AttemptDate.IsZero())

	var persisted model.Result
	require.NoError(t, db.Preload("StudentAnswers").First(&persisted, "id = ?", res.ResultID).Error)
	assert.Equal(t, 2, persisted.Score)
	assert.Len(t, persisted.StudentAnswers, 2)
}

func TestSubmitWrongAnswersScoreZero(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "bob")
	assessment := seedAssessment(t, db, 2)

	res, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Answers: []AnswerSubmission{
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: wrongOption(t, &assessment.Questions[0]).ID},
			{QuestionID: assessment.Questions[1].ID, SelectedOptionID: wrongOption(t, &assessment.Questions[1]).ID},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.Len(t, res.StudentAnswers, 2)
}

func TestSubmitEmptyAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "carol")
	assessment := seedAssessment(t, db, 3)

	res, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.StudentAnswers)
}

func TestSubmitAssessmentNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "dave")

	_, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: model.GenerateUUID(),
		UserID:       student.ID,
	})
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Result{}).Count(&count).Error)
	assert.Zero(t, count, "no result must be persisted")
}

func TestSubmitUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	assessment := seedAssessment(t, db, 1)

	_, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       model.GenerateUUID(),
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Result{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 同一题目的重复作答各自独立解析，会重复计分并产生重复记录。
// 该行为沿用自既有实现，这里显式固定下来。
func TestSubmitDuplicateQuestionAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "erin")
	assessment := seedAssessment(t, db, 1)

	opt := correctOption(t, &assessment.Questions[0])
	res, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Answers: []AnswerSubmission{
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: opt.ID},
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: opt.ID},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Score)
	assert.Len(t, res.StudentAnswers, 2)
}

func TestSubmitTwiceCreatesIndependentResults(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "frank")
	assessment := seedAssessment(t, db, 2)

	req := SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Answers: []AnswerSubmission{
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: correctOption(t, &assessment.Questions[0]).ID},
		},
	}

	first, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultID, second.ResultID)

	var count int64
	require.NoError(t, db.Model(&model.Result{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReplaceResultDoesNotTouchAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "grace")
	assessment := seedAssessment(t, db, 2)

	res, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Answers: []AnswerSubmission{
			{QuestionID: assessment.Questions[0].ID, SelectedOptionID: correctOption(t, &assessment.Questions[0]).ID},
			{QuestionID: assessment.Questions[1].ID, SelectedOptionID: wrongOption(t, &assessment.Questions[1]).ID},
		},
	})
	require.NoError(t, err)

	update := ResultUpdateRequest{
		ResultID:     res.ResultID,
		AssessmentID: assessment.ID,
		UserID:       student.ID,
		Score:        5,
		AttemptDate:  res.AttemptDate,
	}
	require.NoError(t, svc.ReplaceResult(res.ResultID, update))

	var persisted model.Result
	require.NoError(t, db.Preload("StudentAnswers").First(&persisted, "id = ?", res.ResultID).Error)
	assert.Equal(t, 5, persisted.Score)
	assert.Len(t, persisted.StudentAnswers, 2, "correction must not re-grade or drop answers")
}

func TestReplaceResultNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	err := svc.ReplaceResult(model.GenerateUUID(), ResultUpdateRequest{
		ResultID:     "irrelevant",
		AssessmentID: model.GenerateUUID(),
		UserID:       model.GenerateUUID(),
	})
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}

func TestDeleteResult(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)
	student := seedStudent(t, db, "heidi")
	assessment := seedAssessment(t, db, 1)

	res, err := svc.Submit(context.Background(), SubmissionRequest{
		AssessmentID: assessment.ID,
		UserID:       student.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResult(res.ResultID))

	_, err = svc.GetResult(res.ResultID)
	assert.ErrorIs(t, err, util.ErrResultNotFound)

	// 已删除的记录再次删除同样报 NotFound
	assert.ErrorIs(t, svc.DeleteResult(res.ResultID), util.ErrResultNotFound)
}
