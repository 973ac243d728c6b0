package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yxchen/word-quiz-backend/services"
	"github.com/yxchen/word-quiz-backend/utils"
)

type WordController struct {
	svc *services.WordService
}

func NewWordController(svc *services.WordService) *WordController {
	return &WordController{svc: svc}
}

// AddWord POST /api/words
func (ctl *WordController) AddWord(c *gin.Context) {
	var body struct {
		English string `json:"english"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "请提供有效的英文单词或短语")
		return
	}

	trimmed := strings.TrimSpace(body.English)
	if trimmed == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "单词不能为空")
		return
	}
	if len(trimmed) > 100 {
		utils.ErrorResponse(c, http.StatusBadRequest, "单词或短语长度不能超过100个字符")
		return
	}

	word, err := ctl.svc.AddWord(c.Request.Context(), trimmed)
	if err != nil {
		if errors.Is(err, services.ErrWordExists) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "添加单词失败")
		return
	}
	utils.SuccessResponse(c, word, "单词添加成功")
}

// ListWords GET /api/words
func (ctl *WordController) ListWords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	opts := services.ListWordsOptions{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		IsCET4:     boolQuery(c, "isCET4"),
		IsCET6:     boolQuery(c, "isCET6"),
		IsIELTS:    boolQuery(c, "isIELTS"),
		IsTOEFL:    boolQuery(c, "isTOEFL"),
		IsGraduate: boolQuery(c, "isGraduate"),
	}

	words, total, err := ctl.svc.ListWords(c.Request.Context(), opts)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "获取单词列表失败")
		return
	}
	utils.PaginatedResponse(c, words, total, opts.Page, opts.PageSize)
}

// GetWordStats GET /api/words/stats
func (ctl *WordController) GetWordStats(c *gin.Context) {
	stats, err := ctl.svc.Stats(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "获取统计信息失败")
		return
	}
	utils.SuccessResponse(c, stats, "")
}

// GetWord GET /api/words/:id
func (ctl *WordController) GetWord(c *gin.Context) {
	id, ok := parseWordID(c)
	if !ok {
		return
	}

	word, err := ctl.svc.GetWord(c.Request.Context(), id)
	if err != nil {
		respondWordError(c, err)
		return
	}
	utils.SuccessResponse(c, word, "")
}

// UpdateWord PUT /api/words/:id
func (ctl *WordController) UpdateWord(c *gin.Context) {
	id, ok := parseWordID(c)
	if !ok {
		return
	}

	var input services.UpdateWordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "无效的更新数据")
		return
	}

	word, err := ctl.svc.UpdateWord(c.Request.Context(), id, input)
	if err != nil {
		respondWordError(c, err)
		return
	}
	utils.SuccessResponse(c, word, "单词更新成功")
}

// DeleteWord DELETE /api/words/:id
func (ctl *WordController) DeleteWord(c *gin.Context) {
	id, ok := parseWordID(c)
	if !ok {
		return
	}

	if err := ctl.svc.DeleteWord(c.Request.Context(), id); err != nil {
		respondWordError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "删除成功")
}

func parseWordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "无效的单词ID")
		return 0, false
	}
	return uint(id), true
}

func boolQuery(c *gin.Context, key string) *bool {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1"
	return &b
}

func respondWordError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrWordNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	utils.ErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
}
