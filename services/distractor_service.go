package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
)

// 本地干扰项词库：覆盖常见语义类别的通用中文词义，
// AI 不可用时从这里随机挑选。
var distractorPool = []string{
	"增加", "减少", "改变", "保持", "发展", "支持", "反对", "创造", "破坏", "建立",
	"消除", "获得", "失去", "提高", "降低", "扩大", "缩小", "加强", "削弱", "促进",
	"方法", "结果", "原因", "目的", "过程", "条件", "环境", "机会", "挑战", "问题",
	"解决方案", "优势", "劣势", "特点", "本质", "现象", "规律", "趋势", "影响", "作用",
	"重要的", "主要的", "基本的", "特殊的", "普通的", "复杂的", "简单的", "明显的",
	"潜在的", "实际的", "理论的", "具体的", "抽象的", "积极的", "消极的", "有效的",
	"无效的", "直接的", "间接的", "相关的", "系统", "结构", "功能", "价值", "意义",
	"概念", "理论", "实践", "经验", "知识", "能力", "水平", "程度", "范围", "领域",
}

const distractorCount = 3

// DistractorService 干扰选项合成器：优先走 AI，失败时静默回退本地词库。
// Generate 永远不会失败，考核创建不依赖外部 AI 服务的可用性。
type DistractorService struct {
	provider DistractorProvider
	log      *logrus.Logger
}

func NewDistractorService(provider DistractorProvider, log *logrus.Logger) *DistractorService {
	return &DistractorService{provider: provider, log: log}
}

// Generate 为一批单词各生成恰好 3 个干扰项。
func (s *DistractorService) Generate(ctx context.Context, words []DistractorWord) map[string][]string {
	var aiResult map[string][]string
	if s.provider != nil {
		result, err := s.provider.GenerateDistractors(ctx, words)
		if err != nil {
			s.log.WithError(err).Warn("AI 生成干扰选项失败，回退本地词库")
		} else {
			aiResult = result
		}
	}

	out := make(map[string][]string, len(words))
	for _, w := range words {
		options := sanitizeDistractors(aiResult[w.English], w.ChineseDef)
		if len(options) < distractorCount {
			// AI 给的不够，从本地词库补齐
			for _, d := range buildLocalDistractors(distractorPool, w.ChineseDef) {
				if len(options) >= distractorCount {
					break
				}
				if !containsString(options, d) {
					options = append(options, d)
				}
			}
		}
		out[w.English] = padDistractors(options[:min(len(options), distractorCount)])
	}
	return out
}

// sanitizeDistractors 清洗 AI 返回的干扰项：去重、去空、剔除正确答案本身。
func sanitizeDistractors(options []string, chineseDef string) []string {
	def := strings.ToLower(strings.TrimSpace(chineseDef))
	out := make([]string, 0, distractorCount)
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" || strings.ToLower(opt) == def || containsString(out, opt) {
			continue
		}
		out = append(out, opt)
		if len(out) == distractorCount {
			break
		}
	}
	return out
}

// buildLocalDistractors 本地生成：过滤掉与正确释义互为子串或相等的词条，
// 打乱后取前 3 个，不足时用占位选项补满。
func buildLocalDistractors(pool []string, chineseDef string) []string {
	def := strings.ToLower(strings.TrimSpace(chineseDef))

	filtered := make([]string, 0, len(pool))
	for _, d := range pool {
		candidate := strings.ToLower(d)
		if def != "" && (strings.Contains(def, candidate) || strings.Contains(candidate, def)) {
			continue
		}
		filtered = append(filtered, d)
	}

	rand.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})

	if len(filtered) > distractorCount {
		filtered = filtered[:distractorCount]
	}
	return padDistractors(filtered)
}

// padDistractors 补占位选项（选项1、选项2...）直到恰好 3 个。
func padDistractors(options []string) []string {
	for len(options) < distractorCount {
		options = append(options, fmt.Sprintf("选项%d", len(options)+1))
	}
	return options
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
