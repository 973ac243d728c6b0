package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yxchen/word-quiz-backend/models"
	"github.com/yxchen/word-quiz-backend/utils"
)

// QuizService 考核引擎：选词、建批、判题、结批。
type QuizService struct {
	db          *gorm.DB
	distractors *DistractorService
	log         *logrus.Logger
}

func NewQuizService(db *gorm.DB, distractors *DistractorService, log *logrus.Logger) *QuizService {
	return &QuizService{db: db, distractors: distractors, log: log}
}

// StartQuiz 开始新考核：选词、生成两个阶段的题目并落库。
func (s *QuizService) StartQuiz(ctx context.Context, count int) (*models.QuizSessionData, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Word{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyWordBank
	}

	actualCount := count
	if int64(actualCount) > total {
		actualCount = int(total)
	}

	// 上一次考核（不论是否已结束）的选词，用来避免连续重复
	var lastWordIDs models.UintList
	var lastSession models.QuizSession
	err := db.Order("created_at DESC, id DESC").First(&lastSession).Error
	if err == nil {
		lastWordIDs = lastSession.WordIDs
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var allIDs []uint
	if err := db.Model(&models.Word{}).Pluck("id", &allIDs).Error; err != nil {
		return nil, err
	}

	selectedIDs := selectWordIDs(allIDs, lastWordIDs, actualCount)

	var words []models.Word
	if err := db.Where("id IN ?", []uint(selectedIDs)).Find(&words).Error; err != nil {
		return nil, err
	}

	wordByID := make(map[uint]models.Word, len(words))
	for _, w := range words {
		wordByID[w.ID] = w
	}

	// 选词和取词之间单词可能被删除，数量以实际取到的为准，
	// 否则 wordCount 会虚高并拉低正确率
	selectedIDs = existingWordIDs(selectedIDs, wordByID)
	actualCount = len(selectedIDs)
	if actualCount == 0 {
		return nil, ErrEmptyWordBank
	}

	// 阶段1：按选词顺序出题，不下发英文答案
	phase1 := make([]models.QuizWordPhase1, 0, len(selectedIDs))
	batch := make([]DistractorWord, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		w := wordByID[id]
		phase1 = append(phase1, models.QuizWordPhase1{
			ID:           w.ID,
			ChineseDef:   w.ChineseDef,
			PartOfSpeech: w.PartOfSpeech,
		})
		batch = append(batch, DistractorWord{English: w.English, ChineseDef: w.ChineseDef})
	}

	// 干扰选项一次批量生成，AI 挂了也能拿到本地结果
	distractorMap := s.distractors.Generate(ctx, batch)

	plan := buildPhase2Plan(selectedIDs, wordByID, distractorMap)

	phase2 := make([]models.QuizWordPhase2, 0, len(plan))
	for _, entry := range plan {
		w := wordByID[entry.WordID]
		phase2 = append(phase2, models.QuizWordPhase2{
			ID:           w.ID,
			English:      w.English,
			Phonetic:     w.Phonetic,
			PartOfSpeech: w.PartOfSpeech,
			Options:      entry.Options,
			CorrectIndex: entry.CorrectIndex,
		})
	}

	session := models.QuizSession{
		SessionID:  utils.GenerateID(),
		WordCount:  actualCount,
		WordIDs:    selectedIDs,
		Phase2Plan: plan,
		Status:     models.QuizStatusOngoing,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sessionId": session.SessionID,
		"wordCount": actualCount,
	}).Info("考核已创建")

	return &models.QuizSessionData{
		SessionID:   session.SessionID,
		TotalCount:  actualCount,
		Phase1Words: phase1,
		Phase2Words: phase2,
	}, nil
}

// selectWordIDs 从全部单词里选出 actualCount 个，尽量避开上一次考过的词：
// 上次没考过的词够用就只从里面抽，不够就全拿上再从考过的词里补。
func selectWordIDs(allIDs []uint, lastIDs models.UintList, actualCount int) models.UintList {
	if actualCount >= len(allIDs) {
		selected := append(models.UintList{}, allIDs...)
		shuffleIDs(selected)
		return selected
	}

	fresh := make([]uint, 0, len(allIDs))
	prior := make([]uint, 0, len(lastIDs))
	for _, id := range allIDs {
		if lastIDs.Contains(id) {
			prior = append(prior, id)
		} else {
			fresh = append(fresh, id)
		}
	}

	if len(fresh) >= actualCount {
		shuffleIDs(fresh)
		return models.UintList(fresh[:actualCount])
	}

	selected := append(models.UintList{}, fresh...)
	shuffleIDs(prior)
	selected = append(selected, prior[:actualCount-len(fresh)]...)
	shuffleIDs(selected)
	return selected
}

// existingWordIDs 过滤掉取词时已经查不到的 ID，保持原有顺序。
func existingWordIDs(selected models.UintList, wordByID map[uint]models.Word) models.UintList {
	out := make(models.UintList, 0, len(selected))
	for _, id := range selected {
		if _, ok := wordByID[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func shuffleIDs(ids []uint) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// buildPhase2Plan 生成阶段2出题方案：单词顺序独立打乱，每个词把正确释义
// 和干扰项合并后再打乱一次，记录正确答案落在的下标。
func buildPhase2Plan(selectedIDs models.UintList, wordByID map[uint]models.Word, distractorMap map[string][]string) models.Phase2Plan {
	order := append(models.UintList{}, selectedIDs...)
	shuffleIDs(order)

	plan := make(models.Phase2Plan, 0, len(order))
	for _, id := range order {
		w, ok := wordByID[id]
		if !ok {
			continue
		}

		options := []string{w.ChineseDef}
		for _, d := range distractorMap[w.English] {
			if d != w.ChineseDef && !containsString(options, d) {
				options = append(options, d)
			}
		}
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		correctIndex := 0
		for i, opt := range options {
			if opt == w.ChineseDef {
				correctIndex = i
				break
			}
		}

		plan = append(plan, models.Phase2Entry{
			WordID:       w.ID,
			Options:      options,
			CorrectIndex: correctIndex,
		})
	}
	return plan
}

// SubmitPhase1Answer 提交阶段1（中译英）答案。
func (s *QuizService) SubmitPhase1Answer(ctx context.Context, sessionID string, wordID uint, answer string) (*models.Phase1Result, error) {
	db := s.db.WithContext(ctx)

	session, err := s.findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.QuizStatusCompleted {
		return nil, ErrSessionCompleted
	}
	if !session.WordIDs.Contains(wordID) {
		return nil, ErrWordNotInSession
	}

	var word models.Word
	if err := db.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}

	isCorrect := utils.CompareAnswer(answer, word.English)
	if err := s.recordAnswer(ctx, sessionID, wordID, 1, answer, isCorrect); err != nil {
		return nil, err
	}

	return &models.Phase1Result{
		IsCorrect:     isCorrect,
		CorrectAnswer: word.English,
		UserAnswer:    answer,
	}, nil
}

// SubmitPhase2Answer 提交阶段2（英译中）答案，selectedIndex 越界按答错处理。
func (s *QuizService) SubmitPhase2Answer(ctx context.Context, sessionID string, wordID uint, selectedIndex int) (*models.Phase2Result, error) {
	db := s.db.WithContext(ctx)

	session, err := s.findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.QuizStatusCompleted {
		return nil, ErrSessionCompleted
	}

	entry, ok := session.Phase2Plan.Find(wordID)
	if !ok {
		return nil, ErrWordNotInSession
	}

	isCorrect := selectedIndex == entry.CorrectIndex
	userAnswer := ""
	if selectedIndex >= 0 && selectedIndex < len(entry.Options) {
		userAnswer = entry.Options[selectedIndex]
	}

	if err := s.recordAnswer(ctx, sessionID, wordID, 2, userAnswer, isCorrect); err != nil {
		return nil, err
	}

	return &models.Phase2Result{
		IsCorrect:     isCorrect,
		CorrectAnswer: entry.Options[entry.CorrectIndex],
		CorrectIndex:  entry.CorrectIndex,
		UserAnswer:    userAnswer,
		SelectedIndex: selectedIndex,
	}, nil
}

// recordAnswer 在一个事务里完成查重、写记录、改统计，保证记录和统计一致。
// 并发重复提交由 (session_id, word_id, phase) 唯一索引兜底。
func (s *QuizService) recordAnswer(ctx context.Context, sessionID string, wordID uint, phase int, userAnswer string, isCorrect bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.QuizSession
		if err := tx.First(&session, "session_id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status == models.QuizStatusCompleted {
			return ErrSessionCompleted
		}

		var count int64
		if err := tx.Model(&models.QuizRecord{}).
			Where("session_id = ? AND word_id = ? AND phase = ?", sessionID, wordID, phase).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAnswered
		}

		record := models.QuizRecord{
			SessionID:  sessionID,
			WordID:     wordID,
			Phase:      phase,
			UserAnswer: userAnswer,
			IsCorrect:  isCorrect,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAnswered
			}
			return err
		}

		column := "wrong_count"
		if isCorrect {
			column = "correct_count"
		}
		// 原子自增，并以 ongoing 为条件和 FinishQuiz 的条件更新互斥：
		// 结批刚好先落地时这里更新不到行，整个事务回滚，答题记录不会留下
		result := tx.Model(&models.QuizSession{}).
			Where("session_id = ? AND status = ?", sessionID, models.QuizStatusOngoing).
			Update(column, gorm.Expr(column+" + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionCompleted
		}
		return nil
	})
}

// FinishQuiz 结束考核：状态置为 completed 并汇总两个阶段的答题结果。
func (s *QuizService) FinishQuiz(ctx context.Context, sessionID string) (*models.QuizSummary, error) {
	db := s.db.WithContext(ctx)

	session, err := s.findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.QuizStatusCompleted {
		return nil, ErrSessionCompleted
	}

	now := time.Now()
	// 条件更新保证 ongoing -> completed 只发生一次
	result := db.Model(&models.QuizSession{}).
		Where("session_id = ? AND status = ?", sessionID, models.QuizStatusOngoing).
		Updates(map[string]interface{}{
			"status":       models.QuizStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSessionCompleted
	}

	// 重新读取，拿到判题期间累计的最终统计
	session, err = s.findSession(db, sessionID)
	if err != nil {
		return nil, err
	}

	phase1Results, phase2Results, answered, err := s.loadResults(db, sessionID)
	if err != nil {
		return nil, err
	}

	totalQuestions := session.WordCount * 2

	s.log.WithFields(logrus.Fields{
		"sessionId": sessionID,
		"correct":   session.CorrectCount,
		"wrong":     session.WrongCount,
	}).Info("考核已结束")

	return &models.QuizSummary{
		SessionID:      sessionID,
		TotalCount:     session.WordCount,
		TotalQuestions: totalQuestions,
		AnsweredCount:  answered,
		CorrectCount:   session.CorrectCount,
		WrongCount:     session.WrongCount,
		Accuracy:       computeAccuracy(session.CorrectCount, totalQuestions),
		Phase1Results:  phase1Results,
		Phase2Results:  phase2Results,
		CompletedAt:    session.CompletedAt,
	}, nil
}

// GetHistory 分页获取已结束的考核。
func (s *QuizService) GetHistory(ctx context.Context, page, pageSize int) ([]models.QuizHistoryItem, int64, error) {
	db := s.db.WithContext(ctx)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := db.Model(&models.QuizSession{}).
		Where("status = ?", models.QuizStatusCompleted).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.QuizSession
	if err := db.Where("status = ?", models.QuizStatusCompleted).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.QuizHistoryItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, models.QuizHistoryItem{
			SessionID:    sess.SessionID,
			WordCount:    sess.WordCount,
			CorrectCount: sess.CorrectCount,
			WrongCount:   sess.WrongCount,
			Accuracy:     computeAccuracy(sess.CorrectCount, sess.WordCount*2),
			CreatedAt:    sess.CreatedAt,
			CompletedAt:  sess.CompletedAt,
		})
	}
	return items, total, nil
}

// GetDetail 获取单次考核的详细答题情况。
func (s *QuizService) GetDetail(ctx context.Context, sessionID string) (*models.QuizDetail, error) {
	db := s.db.WithContext(ctx)

	session, err := s.findSession(db, sessionID)
	if err != nil {
		return nil, err
	}

	phase1Results, phase2Results, _, err := s.loadResults(db, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.QuizDetail{
		SessionID:     session.SessionID,
		Status:        session.Status,
		WordCount:     session.WordCount,
		CorrectCount:  session.CorrectCount,
		WrongCount:    session.WrongCount,
		Accuracy:      computeAccuracy(session.CorrectCount, session.WordCount*2),
		Phase1Results: phase1Results,
		Phase2Results: phase2Results,
		CreatedAt:     session.CreatedAt,
		CompletedAt:   session.CompletedAt,
	}, nil
}

func (s *QuizService) findSession(db *gorm.DB, sessionID string) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// loadResults 加载答题记录并按阶段分组，关联单词信息用于展示。
func (s *QuizService) loadResults(db *gorm.DB, sessionID string) (phase1, phase2 []models.QuizRecordResult, answered int, err error) {
	var records []models.QuizRecord
	if err = db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, nil, 0, err
	}

	wordIDs := make([]uint, 0, len(records))
	for _, r := range records {
		wordIDs = append(wordIDs, r.WordID)
	}

	wordByID := map[uint]models.Word{}
	if len(wordIDs) > 0 {
		var words []models.Word
		if err = db.Where("id IN ?", wordIDs).Find(&words).Error; err != nil {
			return nil, nil, 0, err
		}
		for _, w := range words {
			wordByID[w.ID] = w
		}
	}

	phase1 = make([]models.QuizRecordResult, 0, len(records))
	phase2 = make([]models.QuizRecordResult, 0, len(records))
	for _, r := range records {
		w := wordByID[r.WordID]
		item := models.QuizRecordResult{
			WordID:     r.WordID,
			English:    w.English,
			ChineseDef: w.ChineseDef,
			UserAnswer: r.UserAnswer,
			IsCorrect:  r.IsCorrect,
		}
		if r.Phase == 1 {
			phase1 = append(phase1, item)
		} else {
			phase2 = append(phase2, item)
		}
	}
	return phase1, phase2, len(records), nil
}

func computeAccuracy(correctCount, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return int(math.Round(float64(correctCount) / float64(totalQuestions) * 100))
}
