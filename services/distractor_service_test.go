package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	result map[string][]string
	err    error
	calls  int
}

func (p *stubProvider) GenerateDistractors(ctx context.Context, words []DistractorWord) (map[string][]string, error) {
	p.calls++
	return p.result, p.err
}

func TestBuildLocalDistractors(t *testing.T) {
	got := buildLocalDistractors(distractorPool, "放弃")

	if len(got) != 3 {
		t.Fatalf("干扰项数 = %d, 期望 3", len(got))
	}
	seen := map[string]bool{}
	for _, d := range got {
		if d == "放弃" {
			t.Errorf("干扰项不能等于正确释义")
		}
		if strings.Contains(d, "放弃") || strings.Contains("放弃", d) {
			t.Errorf("干扰项 %q 与正确释义互为子串", d)
		}
		if seen[d] {
			t.Errorf("干扰项重复: %q", d)
		}
		seen[d] = true
	}
}

func TestBuildLocalDistractorsFiltersSubstrings(t *testing.T) {
	// "的" 是词库里所有形容词的子串，全部应被过滤
	got := buildLocalDistractors(distractorPool, "的")

	for _, d := range got {
		if strings.Contains(d, "的") {
			t.Errorf("包含正确释义的词条 %q 未被过滤", d)
		}
	}
}

func TestBuildLocalDistractorsPadsPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		pool     []string
		def      string
		expected []string
	}{
		{
			name:     "词库为空时全部用占位选项",
			pool:     nil,
			def:      "放弃",
			expected: []string{"选项1", "选项2", "选项3"},
		},
		{
			name:     "词库不足时补占位选项",
			pool:     []string{"增加"},
			def:      "放弃",
			expected: []string{"增加", "选项2", "选项3"},
		},
		{
			name:     "词库全被过滤时补满",
			pool:     []string{"放弃", "弃"},
			def:      "放弃",
			expected: []string{"选项1", "选项2", "选项3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildLocalDistractors(tt.pool, tt.def)
			if len(got) != 3 {
				t.Fatalf("干扰项数 = %d, 期望 3", len(got))
			}
			for i, want := range tt.expected {
				if got[i] != want {
					t.Errorf("got[%d] = %q, 期望 %q", i, got[i], want)
				}
			}
		})
	}
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("网络超时")}
	svc := NewDistractorService(provider, newTestLogger())

	words := []DistractorWord{
		{English: "abandon", ChineseDef: "放弃"},
		{English: "increase", ChineseDef: "增加"},
	}
	got := svc.Generate(context.Background(), words)

	if provider.calls != 1 {
		t.Errorf("provider 应只被调用一次，实际 %d 次", provider.calls)
	}
	for _, w := range words {
		options, ok := got[w.English]
		if !ok {
			t.Fatalf("缺少单词 %s 的干扰项", w.English)
		}
		if len(options) != 3 {
			t.Errorf("%s 干扰项数 = %d, 期望 3", w.English, len(options))
		}
		for _, opt := range options {
			if opt == w.ChineseDef {
				t.Errorf("%s 的干扰项包含了正确释义", w.English)
			}
		}
	}
}

func TestGenerateWithoutProvider(t *testing.T) {
	svc := NewDistractorService(nil, newTestLogger())

	got := svc.Generate(context.Background(), []DistractorWord{{English: "abandon", ChineseDef: "放弃"}})
	if len(got["abandon"]) != 3 {
		t.Fatalf("干扰项数 = %d, 期望 3", len(got["abandon"]))
	}
}

func TestGenerateSanitizesProviderResult(t *testing.T) {
	provider := &stubProvider{result: map[string][]string{
		// 正确释义本身、重复项、空串都要被剔除并补齐
		"abandon": {"放弃", "丢失", "丢失", "", "获得", "减少"},
		// 只给了一个，需要补到 3 个
		"increase": {"减少"},
	}}
	svc := NewDistractorService(provider, newTestLogger())

	words := []DistractorWord{
		{English: "abandon", ChineseDef: "放弃"},
		{English: "increase", ChineseDef: "增加"},
	}
	got := svc.Generate(context.Background(), words)

	abandon := got["abandon"]
	if len(abandon) != 3 {
		t.Fatalf("abandon 干扰项数 = %d, 期望 3", len(abandon))
	}
	seen := map[string]bool{}
	for _, opt := range abandon {
		if opt == "放弃" || opt == "" {
			t.Errorf("非法干扰项 %q 未被剔除", opt)
		}
		if seen[opt] {
			t.Errorf("干扰项重复: %q", opt)
		}
		seen[opt] = true
	}

	increase := got["increase"]
	if len(increase) != 3 {
		t.Fatalf("increase 干扰项数 = %d, 期望 3", len(increase))
	}
	if increase[0] != "减少" {
		t.Errorf("AI 给出的合法干扰项应保留在前面")
	}
	for _, opt := range increase {
		if opt == "增加" {
			t.Errorf("干扰项包含了正确释义")
		}
	}
}

func TestGenerateCapsProviderResultAtThree(t *testing.T) {
	provider := &stubProvider{result: map[string][]string{
		"abandon": {"丢失", "获得", "减少", "扩大", "缩小"},
	}}
	svc := NewDistractorService(provider, newTestLogger())

	got := svc.Generate(context.Background(), []DistractorWord{{English: "abandon", ChineseDef: "放弃"}})
	if len(got["abandon"]) != 3 {
		t.Errorf("干扰项数 = %d, 期望 3", len(got["abandon"]))
	}
}
