package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/yxchen/word-quiz-backend/models"
)

// DistractorWord 生成干扰选项时的输入：单词和它的正确释义。
type DistractorWord struct {
	English    string
	ChineseDef string
}

// WordEnricher 解析单词信息。实现必须总是返回可用结果，
// AI 不可用时退回占位数据。
type WordEnricher interface {
	GetWordInfo(ctx context.Context, english string) models.WordInfo
}

// DistractorProvider 为一批单词生成错误的中文释义（英译中选择题的干扰项）。
// 允许失败，调用方负责回退到本地生成。
type DistractorProvider interface {
	GenerateDistractors(ctx context.Context, words []DistractorWord) (map[string][]string, error)
}

const (
	defaultGeminiModel    = "gemini-2.0-flash"
	enrichTimeout         = 20 * time.Second
	distractorTimeout     = 30 * time.Second
	enrichTemperature     = 0.1
	distractorTemperature = 0.7
)

// GeminiService 封装 Gemini 调用，同时实现 WordEnricher 和 DistractorProvider。
type GeminiService struct {
	apiKey string
	model  string
	log    *logrus.Logger
}

func NewGeminiService(log *logrus.Logger) *GeminiService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiService{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  model,
		log:    log,
	}
}

// hasValidKey 粗检 API key，占位 key（your_xxx）视为未配置。
func (s *GeminiService) hasValidKey() bool {
	return len(s.apiKey) >= 10 && !strings.Contains(s.apiKey, "your_")
}

func (s *GeminiService) generateText(ctx context.Context, prompt string, temperature float32, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("无法创建 Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	model.SetTemperature(temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini 调用失败: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini 未返回有效内容")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// GetWordInfo 调用 AI 解析单词。任何失败都降级为占位数据，不向上抛错。
func (s *GeminiService) GetWordInfo(ctx context.Context, english string) models.WordInfo {
	if !s.hasValidKey() {
		s.log.Warn("AI key 无效，使用模拟单词数据")
		return mockWordInfo(english)
	}

	raw, err := s.generateText(ctx, buildWordInfoPrompt(english), enrichTemperature, enrichTimeout)
	if err != nil {
		s.log.WithError(err).WithField("word", english).Error("AI 解析单词失败")
		return mockWordInfo(english)
	}

	info, ok := parseWordInfo(raw)
	if !ok {
		s.log.WithField("word", english).Error("AI 返回内容无法解析")
		return mockWordInfo(english)
	}
	// AI 偶尔会改写单词本身，以用户输入为准
	info.English = english
	return info
}

// GenerateDistractors 批量生成干扰选项，返回 english -> 干扰项列表。
func (s *GeminiService) GenerateDistractors(ctx context.Context, words []DistractorWord) (map[string][]string, error) {
	if !s.hasValidKey() {
		return nil, fmt.Errorf("AI key 无效")
	}

	raw, err := s.generateText(ctx, buildDistractorPrompt(words), distractorTemperature, distractorTimeout)
	if err != nil {
		return nil, err
	}

	result := map[string][]string{}
	if err := json.Unmarshal([]byte(cleanJSONContent(raw)), &result); err != nil {
		// 有些模型会在 JSON 外包一段说明文字，截取最外层对象再试一次
		obj := extractJSONObject(raw)
		if obj == "" {
			return nil, fmt.Errorf("干扰选项 JSON 解析失败: %w", err)
		}
		if err := json.Unmarshal([]byte(obj), &result); err != nil {
			return nil, fmt.Errorf("干扰选项 JSON 解析失败: %w", err)
		}
	}
	return result, nil
}

func buildWordInfoPrompt(word string) string {
	return fmt.Sprintf(`你是一个专业的英语词汇分析专家，精通各类英语考试大纲。请分析以下单词。

单词: "%s"

【考试分类标准 - 请严格遵守】
1. CET-4：大学英语四级，约 4500 词，都是最基础常见词汇（如 book, water, happy）
2. CET-6：大学英语六级，在四级基础上增加约 2000 个中等难度词汇
3. 雅思 IELTS：学术英语，约 8000 词，包含学术场景词汇
4. 托福 TOEFL：北美学术英语，约 8000-10000 词
5. 考研：研究生入学考试，约 5500 词

【重要规则】
- 简单日常词汇（如 hello, good, water）只属于 CET-4，不要标记为其他考试
- 中等词汇（如 abandon, comprehensive）可能属于多个考试
- 高级学术词汇（如 ubiquitous, ephemeral）通常只属于雅思/托福
- 不确定时，宁可少标记，也不要多标记
- 词频 1-5 分，5 分表示最核心高频词

请返回纯 JSON 格式（不要 Markdown 代码块）：
{
  "english": "%s",
  "phonetic": "音标",
  "partOfSpeech": ["词性"],
  "englishDef": "英文释义",
  "chineseDef": "中文释义",
  "isCET4": true或false,
  "isCET6": true或false,
  "isIELTS": true或false,
  "isTOEFL": true或false,
  "isGraduate": true或false,
  "cet4Freq": 数字或null,
  "cet6Freq": 数字或null,
  "ieltsFreq": 数字或null,
  "toeflFreq": 数字或null,
  "graduateFreq": 数字或null
}`, word, word)
}

func buildDistractorPrompt(words []DistractorWord) string {
	lines := make([]string, 0, len(words))
	for _, w := range words {
		lines = append(lines, w.English+": "+w.ChineseDef)
	}
	return "请为以下每个英文单词生成3个干扰选项（错误的中文释义），用于英译中选择题。\n\n单词列表：\n" +
		strings.Join(lines, "\n") +
		"\n\n要求：\n1. 干扰选项应该与正确答案有一定相似性，但必须是错误的\n2. 干扰选项应该是真实存在的中文词义\n3. 干扰选项的长度应与正确答案相近\n4. 每个单词必须有恰好3个干扰选项\n\n请返回纯 JSON 格式（不要 Markdown 代码块）：\n{\n  \"单词1\": [\"干扰项1\", \"干扰项2\", \"干扰项3\"],\n  \"单词2\": [\"干扰项1\", \"干扰项2\", \"干扰项3\"]\n}"
}

// cleanJSONContent 去掉模型常见的 Markdown 代码块包裹。
func cleanJSONContent(content string) string {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```JSON")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// extractJSONObject 截取文本中最外层的 {...}，取不到时返回空串。
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

// parseWordInfo 解析并校验 AI 返回的单词信息。
func parseWordInfo(content string) (models.WordInfo, bool) {
	var raw struct {
		English      string          `json:"english"`
		Phonetic     string          `json:"phonetic"`
		PartOfSpeech json.RawMessage `json:"partOfSpeech"`
		EnglishDef   string          `json:"englishDef"`
		ChineseDef   string          `json:"chineseDef"`
		IsCET4       bool            `json:"isCET4"`
		IsCET6       bool            `json:"isCET6"`
		IsIELTS      bool            `json:"isIELTS"`
		IsTOEFL      bool            `json:"isTOEFL"`
		IsGraduate   bool            `json:"isGraduate"`
		CET4Freq     *float64        `json:"cet4Freq"`
		CET6Freq     *float64        `json:"cet6Freq"`
		IELTSFreq    *float64        `json:"ieltsFreq"`
		TOEFLFreq    *float64        `json:"toeflFreq"`
		GraduateFreq *float64        `json:"graduateFreq"`
	}

	clean := cleanJSONContent(content)
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		obj := extractJSONObject(content)
		if obj == "" {
			return models.WordInfo{}, false
		}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return models.WordInfo{}, false
		}
	}

	info := models.WordInfo{
		English:      raw.English,
		Phonetic:     raw.Phonetic,
		PartOfSpeech: parsePartOfSpeech(raw.PartOfSpeech),
		EnglishDef:   raw.EnglishDef,
		ChineseDef:   raw.ChineseDef,
		IsCET4:       raw.IsCET4,
		IsCET6:       raw.IsCET6,
		IsIELTS:      raw.IsIELTS,
		IsTOEFL:      raw.IsTOEFL,
		IsGraduate:   raw.IsGraduate,
	}
	if info.ChineseDef == "" {
		info.ChineseDef = "暂无释义"
	}
	if info.IsCET4 {
		info.CET4Freq = parseFreq(raw.CET4Freq)
	}
	if info.IsCET6 {
		info.CET6Freq = parseFreq(raw.CET6Freq)
	}
	if info.IsIELTS {
		info.IELTSFreq = parseFreq(raw.IELTSFreq)
	}
	if info.IsTOEFL {
		info.TOEFLFreq = parseFreq(raw.TOEFLFreq)
	}
	if info.IsGraduate {
		info.GraduateFreq = parseFreq(raw.GraduateFreq)
	}
	return info, true
}

// parsePartOfSpeech 兼容 AI 把词性返回成字符串或数组两种情况。
func parsePartOfSpeech(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{"n."}
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{"n."}
}

// parseFreq 词频只接受 1-5，其余一律当作缺失。
func parseFreq(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(*v + 0.5)
	if n < 1 || n > 5 {
		return nil
	}
	return &n
}

func mockWordInfo(word string) models.WordInfo {
	return models.WordInfo{
		English:      word,
		Phonetic:     "/.../",
		PartOfSpeech: []string{"n."},
		EnglishDef:   "Definition not available",
		ChineseDef:   "释义获取失败",
	}
}
