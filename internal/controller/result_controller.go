package controller

import (
	"edu_assess_backend/internal/service"
	"edu_assess_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Scoring *service.ScoringService
	Reports *service.ReportService
}

func NewResultController(scoring *service.ScoringService, reports *service.ReportService) *ResultController {
	return &ResultController{Scoring: scoring, Reports: reports}
}

// @Summary 提交测评作答并评分
// @Tags 成绩
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmissionRequest true "作答内容"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results/submit [post]
func (c *ResultController) SubmitAssessment(ctx *gin.Context) {
	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Scoring.Submit(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssessmentNotFound), errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, res)
}

// @Summary 获取单条成绩记录
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	result, err := c.Scoring.GetResult(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrResultNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 本人或教师才能查看
	claims := util.GetUserFromContext(ctx)
	if claims == nil || (claims.UserID != result.UserID && !claims.IsInstructor()) {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, result)
}

// @Summary 成绩记录列表
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	results, err := c.Scoring.ListResults()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary 更正成绩记录（不触碰作答明细，不重新评分）
// @Tags 成绩
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Param body body service.ResultUpdateRequest true "更正内容"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /results/{id} [put]
func (c *ResultController) UpdateResult(ctx *gin.Context) {
	id := ctx.Param("id")

	var req service.ResultUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ResultID != id {
		util.BadRequest(ctx, "result id mismatch")
		return
	}

	if err := c.Scoring.ReplaceResult(id, req); err != nil {
		if errors.Is(err, util.ErrResultNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.NoContent(ctx)
}

// @Summary 删除成绩记录
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /results/{id} [delete]
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	if err := c.Scoring.DeleteResult(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrResultNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.NoContent(ctx)
}

// @Summary 学生成绩报告
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "用户ID"
// @Param assessmentId path string true "评测ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results/student/{userId}/assessment/{assessmentId} [get]
func (c *ResultController) GetStudentResult(ctx *gin.Context) {
	userID := ctx.Param("userId")
	assessmentID := ctx.Param("assessmentId")

	claims := util.GetUserFromContext(ctx)
	if claims == nil || (claims.UserID != userID && !claims.IsInstructor()) {
		util.Forbidden(ctx)
		return
	}

	view, err := c.Reports.GetStudentResult(ctx.Request.Context(), userID, assessmentID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound),
			errors.Is(err, util.ErrUserNotFound),
			errors.Is(err, util.ErrAssessmentNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// @Summary 某评测的提交列表（教师）
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param assessmentId path string true "评测ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results/assessment/{assessmentId}/submissions [get]
func (c *ResultController) ListSubmissions(ctx *gin.Context) {
	summaries, err := c.Reports.ListSubmissions(ctx.Request.Context(), ctx.Param("assessmentId"))
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summaries)
}

// @Summary 单次提交的逐题明细（教师）
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param assessmentId path string true "评测ID"
// @Param resultId path string true "成绩ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /results/assessment/{assessmentId}/submission/{resultId} [get]
func (c *ResultController) GetDetailedSubmission(ctx *gin.Context) {
	view, err := c.Reports.GetDetailedSubmission(ctx.Request.Context(), ctx.Param("assessmentId"), ctx.Param("resultId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound), errors.Is(err, util.ErrAssessmentNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}
