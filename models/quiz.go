package models

import "time"

const (
	QuizStatusOngoing   = "ongoing"
	QuizStatusCompleted = "completed"
)

// QuizSession 一次考核批次。wordIds 的顺序是阶段1的出题顺序，
// phase2Plan 是建批时生成并固化的阶段2选择题方案。
type QuizSession struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	SessionID  string     `gorm:"size:64;uniqueIndex;not null" json:"sessionId"`
	WordCount  int        `gorm:"not null" json:"wordCount"`
	WordIDs    UintList   `gorm:"type:text" json:"wordIds"`
	Phase2Plan Phase2Plan `gorm:"type:text" json:"-"`
	Status     string     `gorm:"size:20;default:'ongoing'" json:"status"`

	CorrectCount int `gorm:"default:0" json:"correctCount"`
	WrongCount   int `gorm:"default:0" json:"wrongCount"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// QuizRecord 一次答题记录。(session_id, word_id, phase) 全局唯一，
// 唯一索引保证同一道题不会被记两次分。
type QuizRecord struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SessionID  string    `gorm:"size:64;not null;uniqueIndex:idx_quiz_record_key" json:"sessionId"`
	WordID     uint      `gorm:"not null;uniqueIndex:idx_quiz_record_key" json:"wordId"`
	Phase      int       `gorm:"not null;uniqueIndex:idx_quiz_record_key" json:"phase"`
	UserAnswer string    `gorm:"type:text" json:"userAnswer"`
	IsCorrect  bool      `gorm:"not null" json:"isCorrect"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ======== 考核接口的 DTO ========

// QuizWordPhase1 阶段1（中译英）题目，不下发英文答案。
type QuizWordPhase1 struct {
	ID           uint     `json:"id"`
	ChineseDef   string   `json:"chineseDef"`
	PartOfSpeech []string `json:"partOfSpeech"`
}

// QuizWordPhase2 阶段2（英译中）题目。
type QuizWordPhase2 struct {
	ID           uint     `json:"id"`
	English      string   `json:"english"`
	Phonetic     string   `json:"phonetic"`
	PartOfSpeech []string `json:"partOfSpeech"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// QuizSessionData 开始考核的返回数据。
type QuizSessionData struct {
	SessionID   string           `json:"sessionId"`
	TotalCount  int              `json:"totalCount"`
	Phase1Words []QuizWordPhase1 `json:"phase1Words"`
	Phase2Words []QuizWordPhase2 `json:"phase2Words"`
}

// Phase1Result 阶段1判题结果。
type Phase1Result struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// Phase2Result 阶段2判题结果。
type Phase2Result struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	CorrectIndex  int    `json:"correctIndex"`
	UserAnswer    string `json:"userAnswer"`
	SelectedIndex int    `json:"selectedIndex"`
}

// QuizRecordResult 单条答题记录（带单词信息，用于结果展示）。
type QuizRecordResult struct {
	WordID     uint   `json:"wordId"`
	English    string `json:"english"`
	ChineseDef string `json:"chineseDef"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuizSummary 结束考核后的汇总。未作答的题目不在结果列表中，
// 也不计入对错。
type QuizSummary struct {
	SessionID      string             `json:"sessionId"`
	TotalCount     int                `json:"totalCount"`
	TotalQuestions int                `json:"totalQuestions"`
	AnsweredCount  int                `json:"answeredCount"`
	CorrectCount   int                `json:"correctCount"`
	WrongCount     int                `json:"wrongCount"`
	Accuracy       int                `json:"accuracy"`
	Phase1Results  []QuizRecordResult `json:"phase1Results"`
	Phase2Results  []QuizRecordResult `json:"phase2Results"`
	CompletedAt    *time.Time         `json:"completedAt"`
}

// QuizHistoryItem 考核历史列表项。
type QuizHistoryItem struct {
	SessionID    string     `json:"sessionId"`
	WordCount    int        `json:"wordCount"`
	CorrectCount int        `json:"correctCount"`
	WrongCount   int        `json:"wrongCount"`
	Accuracy     int        `json:"accuracy"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}

// QuizDetail 考核详情。
type QuizDetail struct {
	SessionID     string             `json:"sessionId"`
	Status        string             `json:"status"`
	WordCount     int                `json:"wordCount"`
	CorrectCount  int                `json:"correctCount"`
	WrongCount    int                `json:"wrongCount"`
	Accuracy      int                `json:"accuracy"`
	Phase1Results []QuizRecordResult `json:"phase1Results"`
	Phase2Results []QuizRecordResult `json:"phase2Results"`
	CreatedAt     time.Time          `json:"createdAt"`
	CompletedAt   *time.Time         `json:"completedAt"`
}
