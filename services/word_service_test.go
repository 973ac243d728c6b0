package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yxchen/word-quiz-backend/models"
)

type stubEnricher struct{}

func (stubEnricher) GetWordInfo(ctx context.Context, english string) models.WordInfo {
	return models.WordInfo{
		English:      english,
		PartOfSpeech: []string{"n."},
		ChineseDef:   "测试释义",
	}
}

func newTestWordService(db *gorm.DB) *WordService {
	return NewWordService(db, stubEnricher{}, newTestLogger())
}

func TestAddWordNormalizes(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWordService(db)

	word, err := svc.AddWord(context.Background(), "  Abandon  ")
	if err != nil {
		t.Fatalf("AddWord 失败: %v", err)
	}
	if word.English != "abandon" {
		t.Errorf("english = %q, 期望小写去空格", word.English)
	}
	if word.ChineseDef != "测试释义" {
		t.Errorf("chineseDef = %q", word.ChineseDef)
	}
}

func TestAddWordDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWordService(db)

	if _, err := svc.AddWord(context.Background(), "abandon"); err != nil {
		t.Fatalf("首次添加失败: %v", err)
	}

	// 大小写和空格归一化后视为同一个词
	word, err := svc.AddWord(context.Background(), " ABANDON ")
	if !errors.Is(err, ErrWordExists) {
		t.Fatalf("期望 ErrWordExists，实际 %v", err)
	}
	if word != nil {
		t.Errorf("出错时不应返回单词，实际 %+v", word)
	}

	var count int64
	db.Model(&models.Word{}).Count(&count)
	if count != 1 {
		t.Errorf("单词数 = %d, 期望 1", count)
	}
}
