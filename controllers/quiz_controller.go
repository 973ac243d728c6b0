package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yxchen/word-quiz-backend/services"
	"github.com/yxchen/word-quiz-backend/utils"
)

// 一次考核允许的单词数量
var validQuizCounts = []int{10, 20, 30, 50}

type QuizController struct {
	svc *services.QuizService
}

func NewQuizController(svc *services.QuizService) *QuizController {
	return &QuizController{svc: svc}
}

// StartQuiz POST /api/quiz/start
func (ctl *QuizController) StartQuiz(c *gin.Context) {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !isValidQuizCount(body.Count) {
		utils.ErrorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("请选择有效的考核数量: %s", joinCounts(validQuizCounts)))
		return
	}

	data, err := ctl.svc.StartQuiz(c.Request.Context(), body.Count)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	utils.SuccessResponse(c, data, "考核开始")
}

// SubmitPhase1Answer POST /api/quiz/submit/phase1
func (ctl *QuizController) SubmitPhase1Answer(c *gin.Context) {
	var body struct {
		SessionID string  `json:"sessionId"`
		WordID    uint    `json:"wordId"`
		Answer    *string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" || body.WordID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "无效的提交参数")
		return
	}
	if body.Answer == nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "请提供答案")
		return
	}

	result, err := ctl.svc.SubmitPhase1Answer(c.Request.Context(), body.SessionID, body.WordID, *body.Answer)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}

// SubmitPhase2Answer POST /api/quiz/submit/phase2
func (ctl *QuizController) SubmitPhase2Answer(c *gin.Context) {
	var body struct {
		SessionID     string `json:"sessionId"`
		WordID        uint   `json:"wordId"`
		SelectedIndex *int   `json:"selectedIndex"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" || body.WordID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "无效的提交参数")
		return
	}
	if body.SelectedIndex == nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "请选择一个选项")
		return
	}

	result, err := ctl.svc.SubmitPhase2Answer(c.Request.Context(), body.SessionID, body.WordID, *body.SelectedIndex)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}

// FinishQuiz POST /api/quiz/finish
func (ctl *QuizController) FinishQuiz(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "请提供考核批次 ID")
		return
	}

	summary, err := ctl.svc.FinishQuiz(c.Request.Context(), body.SessionID)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	utils.SuccessResponse(c, summary, "考核结束")
}

// GetHistory GET /api/quiz/history
func (ctl *QuizController) GetHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	items, total, err := ctl.svc.GetHistory(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "获取考核历史失败")
		return
	}
	utils.PaginatedResponse(c, items, total, page, pageSize)
}

// GetQuizDetail GET /api/quiz/:sessionId
func (ctl *QuizController) GetQuizDetail(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "请提供考核批次 ID")
		return
	}

	detail, err := ctl.svc.GetDetail(c.Request.Context(), sessionID)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	utils.SuccessResponse(c, detail, "")
}

func isValidQuizCount(count int) bool {
	for _, v := range validQuizCounts {
		if v == count {
			return true
		}
	}
	return false
}

func joinCounts(counts []int) string {
	out := ""
	for i, v := range counts {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(v)
	}
	return out
}

// respondQuizError 把业务错误映射为 HTTP 状态码，未知错误不向外泄露细节。
func respondQuizError(c *gin.Context, err error) {
	status := statusForQuizError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "服务器内部错误"
	}
	utils.ErrorResponse(c, status, message)
}

func statusForQuizError(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmptyWordBank),
		errors.Is(err, services.ErrSessionCompleted),
		errors.Is(err, services.ErrWordNotInSession),
		errors.Is(err, services.ErrAlreadyAnswered),
		errors.Is(err, services.ErrWordNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
