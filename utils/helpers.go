package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID 生成考核批次 ID。
func GenerateID() string {
	return uuid.NewString()
}

// CompareAnswer 比较用户答案和标准答案，忽略大小写和首尾空格，
// 除此之外不做任何归一化。
func CompareAnswer(userAnswer, correctAnswer string) bool {
	return strings.ToLower(strings.TrimSpace(userAnswer)) ==
		strings.ToLower(strings.TrimSpace(correctAnswer))
}

// NormalizeEnglish 入库前统一单词格式：去空格、转小写。
func NormalizeEnglish(english string) string {
	return strings.ToLower(strings.TrimSpace(english))
}
