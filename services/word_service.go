package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yxchen/word-quiz-backend/models"
	"github.com/yxchen/word-quiz-backend/utils"
)

// WordService 单词本的增删改查，新增时调用 AI 补全词汇信息。
type WordService struct {
	db       *gorm.DB
	enricher WordEnricher
	log      *logrus.Logger
}

func NewWordService(db *gorm.DB, enricher WordEnricher, log *logrus.Logger) *WordService {
	return &WordService{db: db, enricher: enricher, log: log}
}

// ListWordsOptions 列表查询参数。
type ListWordsOptions struct {
	Page     int
	PageSize int
	Search   string
	// 按考试标签过滤，nil 表示不过滤
	IsCET4     *bool
	IsCET6     *bool
	IsIELTS    *bool
	IsTOEFL    *bool
	IsGraduate *bool
}

// UpdateWordInput 可更新的字段，nil 表示不改。
type UpdateWordInput struct {
	Phonetic     *string   `json:"phonetic"`
	PartOfSpeech *[]string `json:"partOfSpeech"`
	EnglishDef   *string   `json:"englishDef"`
	ChineseDef   *string   `json:"chineseDef"`
	IsCET4       *bool     `json:"isCET4"`
	IsCET6       *bool     `json:"isCET6"`
	IsIELTS      *bool     `json:"isIELTS"`
	IsTOEFL      *bool     `json:"isTOEFL"`
	IsGraduate   *bool     `json:"isGraduate"`
}

// AddWord 添加单词：查重后调用 AI 解析并入库。
// AI 失败时仍会入库，用占位释义兜底。
func (s *WordService) AddWord(ctx context.Context, english string) (*models.Word, error) {
	normalized := utils.NormalizeEnglish(english)

	var existing models.Word
	err := s.db.WithContext(ctx).First(&existing, "english = ?", normalized).Error
	if err == nil {
		return nil, ErrWordExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	info := s.enricher.GetWordInfo(ctx, normalized)

	word := models.Word{
		English:      normalized,
		Phonetic:     info.Phonetic,
		PartOfSpeech: info.PartOfSpeech,
		EnglishDef:   info.EnglishDef,
		ChineseDef:   info.ChineseDef,
		IsCET4:       info.IsCET4,
		IsCET6:       info.IsCET6,
		IsIELTS:      info.IsIELTS,
		IsTOEFL:      info.IsTOEFL,
		IsGraduate:   info.IsGraduate,
		CET4Freq:     info.CET4Freq,
		CET6Freq:     info.CET6Freq,
		IELTSFreq:    info.IELTSFreq,
		TOEFLFreq:    info.TOEFLFreq,
		GraduateFreq: info.GraduateFreq,
	}
	if err := s.db.WithContext(ctx).Create(&word).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWordExists
		}
		return nil, err
	}

	s.log.WithField("word", normalized).Info("单词已添加")
	return &word, nil
}

// ListWords 分页查询单词，支持搜索和考试标签过滤。
func (s *WordService) ListWords(ctx context.Context, opts ListWordsOptions) ([]models.Word, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&models.Word{})
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("english LIKE ? OR chinese_def LIKE ?", pattern, pattern)
	}
	if opts.IsCET4 != nil {
		query = query.Where("is_cet4 = ?", *opts.IsCET4)
	}
	if opts.IsCET6 != nil {
		query = query.Where("is_cet6 = ?", *opts.IsCET6)
	}
	if opts.IsIELTS != nil {
		query = query.Where("is_ielts = ?", *opts.IsIELTS)
	}
	if opts.IsTOEFL != nil {
		query = query.Where("is_toefl = ?", *opts.IsTOEFL)
	}
	if opts.IsGraduate != nil {
		query = query.Where("is_graduate = ?", *opts.IsGraduate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var words []models.Word
	if err := query.Order("created_at DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&words).Error; err != nil {
		return nil, 0, err
	}
	return words, total, nil
}

func (s *WordService) GetWord(ctx context.Context, id uint) (*models.Word, error) {
	var word models.Word
	if err := s.db.WithContext(ctx).First(&word, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}
	return &word, nil
}

// UpdateWord 部分更新单词信息。
func (s *WordService) UpdateWord(ctx context.Context, id uint, input UpdateWordInput) (*models.Word, error) {
	word, err := s.GetWord(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Phonetic != nil {
		updates["phonetic"] = *input.Phonetic
	}
	if input.PartOfSpeech != nil {
		updates["part_of_speech"] = models.StringList(*input.PartOfSpeech)
	}
	if input.EnglishDef != nil {
		updates["english_def"] = *input.EnglishDef
	}
	if input.ChineseDef != nil {
		updates["chinese_def"] = *input.ChineseDef
	}
	if input.IsCET4 != nil {
		updates["is_cet4"] = *input.IsCET4
	}
	if input.IsCET6 != nil {
		updates["is_cet6"] = *input.IsCET6
	}
	if input.IsIELTS != nil {
		updates["is_ielts"] = *input.IsIELTS
	}
	if input.IsTOEFL != nil {
		updates["is_toefl"] = *input.IsTOEFL
	}
	if input.IsGraduate != nil {
		updates["is_graduate"] = *input.IsGraduate
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(word).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetWord(ctx, id)
}

func (s *WordService) DeleteWord(ctx context.Context, id uint) error {
	if _, err := s.GetWord(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Word{}, id).Error
}

// Stats 单词本总量和各考试的词数。
func (s *WordService) Stats(ctx context.Context) (*models.WordStats, error) {
	db := s.db.WithContext(ctx)
	stats := models.WordStats{}

	type flagCount struct {
		column string
		dest   *int64
	}
	counts := []flagCount{
		{"is_cet4", &stats.CET4Count},
		{"is_cet6", &stats.CET6Count},
		{"is_ielts", &stats.IELTSCount},
		{"is_toefl", &stats.TOEFLCount},
		{"is_graduate", &stats.GraduateCount},
	}

	if err := db.Model(&models.Word{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	for _, fc := range counts {
		if err := db.Model(&models.Word{}).
			Where(fc.column+" = ?", true).
			Count(fc.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
