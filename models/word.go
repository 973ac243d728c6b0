package models

import "time"

// Word 单词本里的一个词条，english 统一小写去空格后唯一。
type Word struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	English      string     `gorm:"size:100;uniqueIndex;not null" json:"english"`
	Phonetic     string     `gorm:"size:100" json:"phonetic"`
	PartOfSpeech StringList `gorm:"type:text" json:"partOfSpeech"`
	EnglishDef   string     `gorm:"type:text" json:"englishDef"`
	ChineseDef   string     `gorm:"type:text;not null" json:"chineseDef"`

	// 考试大纲标签
	IsCET4     bool `gorm:"column:is_cet4;default:false" json:"isCET4"`
	IsCET6     bool `gorm:"column:is_cet6;default:false" json:"isCET6"`
	IsIELTS    bool `gorm:"column:is_ielts;default:false" json:"isIELTS"`
	IsTOEFL    bool `gorm:"column:is_toefl;default:false" json:"isTOEFL"`
	IsGraduate bool `gorm:"column:is_graduate;default:false" json:"isGraduate"`

	// 词频 1-5，不属于该考试时为 null
	CET4Freq     *int `gorm:"column:cet4_freq" json:"cet4Freq"`
	CET6Freq     *int `gorm:"column:cet6_freq" json:"cet6Freq"`
	IELTSFreq    *int `gorm:"column:ielts_freq" json:"ieltsFreq"`
	TOEFLFreq    *int `gorm:"column:toefl_freq" json:"toeflFreq"`
	GraduateFreq *int `gorm:"column:graduate_freq" json:"graduateFreq"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// WordInfo 是 AI 解析单词后返回的结构。
type WordInfo struct {
	English      string   `json:"english"`
	Phonetic     string   `json:"phonetic"`
	PartOfSpeech []string `json:"partOfSpeech"`
	EnglishDef   string   `json:"englishDef"`
	ChineseDef   string   `json:"chineseDef"`
	IsCET4       bool     `json:"isCET4"`
	IsCET6       bool     `json:"isCET6"`
	IsIELTS      bool     `json:"isIELTS"`
	IsTOEFL      bool     `json:"isTOEFL"`
	IsGraduate   bool     `json:"isGraduate"`
	CET4Freq     *int     `json:"cet4Freq"`
	CET6Freq     *int     `json:"cet6Freq"`
	IELTSFreq    *int     `json:"ieltsFreq"`
	TOEFLFreq    *int     `json:"toeflFreq"`
	GraduateFreq *int     `json:"graduateFreq"`
}

// WordStats 单词本统计。
type WordStats struct {
	Total         int64 `json:"total"`
	CET4Count     int64 `json:"cet4Count"`
	CET6Count     int64 `json:"cet6Count"`
	IELTSCount    int64 `json:"ieltsCount"`
	TOEFLCount    int64 `json:"toeflCount"`
	GraduateCount int64 `json:"graduateCount"`
}
