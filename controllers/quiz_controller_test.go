package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yxchen/word-quiz-backend/models"
	"github.com/yxchen/word-quiz-backend/routes"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Word{}, &models.QuizSession{}, &models.QuizRecord{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return routes.SetupRouter(gin.New(), db, log), db
}

func seedTestWords(t *testing.T, db *gorm.DB, n int) map[uint]models.Word {
	t.Helper()
	out := make(map[uint]models.Word, n)
	for i := 1; i <= n; i++ {
		w := models.Word{
			English:      fmt.Sprintf("word%02d", i),
			PartOfSpeech: models.StringList{"n."},
			ChineseDef:   fmt.Sprintf("测试释义%d", i),
		}
		if err := db.Create(&w).Error; err != nil {
			t.Fatalf("写入测试单词失败: %v", err)
		}
		out[w.ID] = w
	}
	return out
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("编码请求体失败: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return env
}

func TestQuizFlow(t *testing.T) {
	r, db := setupTestRouter(t)
	words := seedTestWords(t, db, 10)

	// 开始考核
	w := doJSON(t, r, http.MethodPost, "/api/quiz/start", gin.H{"count": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("start 状态码 = %d, body=%s", w.Code, w.Body.String())
	}
	var data models.QuizSessionData
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatalf("解析考核数据失败: %v", err)
	}
	if data.SessionID == "" || len(data.Phase1Words) != 10 || len(data.Phase2Words) != 10 {
		t.Fatalf("考核数据不完整: %+v", data)
	}

	// 阶段1：第一题答对，第二题答错
	first := data.Phase1Words[0]
	w = doJSON(t, r, http.MethodPost, "/api/quiz/submit/phase1", gin.H{
		"sessionId": data.SessionID,
		"wordId":    first.ID,
		"answer":    " " + words[first.ID].English + " ",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("phase1 提交状态码 = %d, body=%s", w.Code, w.Body.String())
	}
	var p1 models.Phase1Result
	json.Unmarshal(decodeEnvelope(t, w).Data, &p1)
	if !p1.IsCorrect {
		t.Errorf("首尾空格不应影响判对")
	}

	second := data.Phase1Words[1]
	w = doJSON(t, r, http.MethodPost, "/api/quiz/submit/phase1", gin.H{
		"sessionId": data.SessionID,
		"wordId":    second.ID,
		"answer":    "wrong answer",
	})
	json.Unmarshal(decodeEnvelope(t, w).Data, &p1)
	if p1.IsCorrect {
		t.Errorf("错误答案被判对")
	}

	// 重复提交
	w = doJSON(t, r, http.MethodPost, "/api/quiz/submit/phase1", gin.H{
		"sessionId": data.SessionID,
		"wordId":    first.ID,
		"answer":    "again",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("重复提交状态码 = %d, 期望 400", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Error != "该单词已经回答过" {
		t.Errorf("error = %q", env.Error)
	}

	// 阶段2：用下发的 correctIndex 答对一题
	q2 := data.Phase2Words[0]
	w = doJSON(t, r, http.MethodPost, "/api/quiz/submit/phase2", gin.H{
		"sessionId":     data.SessionID,
		"wordId":        q2.ID,
		"selectedIndex": q2.CorrectIndex,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("phase2 提交状态码 = %d, body=%s", w.Code, w.Body.String())
	}
	var p2 models.Phase2Result
	json.Unmarshal(decodeEnvelope(t, w).Data, &p2)
	if !p2.IsCorrect || p2.CorrectIndex != q2.CorrectIndex {
		t.Errorf("phase2 结果异常: %+v", p2)
	}

	// 结束考核
	w = doJSON(t, r, http.MethodPost, "/api/quiz/finish", gin.H{"sessionId": data.SessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("finish 状态码 = %d, body=%s", w.Code, w.Body.String())
	}
	var summary models.QuizSummary
	json.Unmarshal(decodeEnvelope(t, w).Data, &summary)
	if summary.TotalQuestions != 20 || summary.AnsweredCount != 3 {
		t.Errorf("汇总异常: %+v", summary)
	}
	if summary.CorrectCount != 2 || summary.WrongCount != 1 {
		t.Errorf("统计 = %d对/%d错, 期望 2/1", summary.CorrectCount, summary.WrongCount)
	}
	// 2/20 = 10%
	if summary.Accuracy != 10 {
		t.Errorf("accuracy = %d, 期望 10", summary.Accuracy)
	}

	// 结束后再提交
	w = doJSON(t, r, http.MethodPost, "/api/quiz/submit/phase1", gin.H{
		"sessionId": data.SessionID,
		"wordId":    data.Phase1Words[2].ID,
		"answer":    "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("结束后提交状态码 = %d, 期望 400", w.Code)
	}

	// 历史和详情
	w = doJSON(t, r, http.MethodGet, "/api/quiz/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history 状态码 = %d", w.Code)
	}
	var page struct {
		Items []models.QuizHistoryItem `json:"items"`
		Total int64                    `json:"total"`
	}
	json.Unmarshal(decodeEnvelope(t, w).Data, &page)
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("历史条数 = %d/%d, 期望 1/1", page.Total, len(page.Items))
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz/"+data.SessionID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail 状态码 = %d", w.Code)
	}
	var detail models.QuizDetail
	json.Unmarshal(decodeEnvelope(t, w).Data, &detail)
	if detail.Status != models.QuizStatusCompleted || len(detail.Phase1Results) != 2 || len(detail.Phase2Results) != 1 {
		t.Errorf("详情异常: %+v", detail)
	}
}

func TestStartQuizValidation(t *testing.T) {
	r, db := setupTestRouter(t)

	// 空单词本
	w := doJSON(t, r, http.MethodPost, "/api/quiz/start", gin.H{"count": 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("空单词本状态码 = %d, 期望 400", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Error != "单词本为空，请先添加单词" {
		t.Errorf("error = %q", env.Error)
	}

	seedTestWords(t, db, 5)

	// 非法数量
	for _, count := range []int{0, 5, 15, 100} {
		w := doJSON(t, r, http.MethodPost, "/api/quiz/start", gin.H{"count": count})
		if w.Code != http.StatusBadRequest {
			t.Errorf("count=%d 状态码 = %d, 期望 400", count, w.Code)
		}
	}
}

func TestQuizSessionNotFound(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quiz/finish", gin.H{"sessionId": "missing"})
	if w.Code != http.StatusNotFound {
		t.Errorf("finish 未知批次状态码 = %d, 期望 404", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("detail 未知批次状态码 = %d, 期望 404", w.Code)
	}
}
