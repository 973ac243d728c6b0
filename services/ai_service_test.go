package services

import (
	"context"
	"testing"
)

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"纯 JSON", `{"a":1}`, `{"a":1}`},
		{"json 代码块", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"无语言标记代码块", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"前后空白", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONContent(tt.input); got != tt.expected {
				t.Errorf("cleanJSONContent() = %q, 期望 %q", got, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"带说明文字", `好的，结果如下：{"a":1} 希望有帮助`, `{"a":1}`},
		{"嵌套对象", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"没有对象", "完全没有 JSON", ""},
		{"只有左括号", "{abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.input); got != tt.expected {
				t.Errorf("extractJSONObject() = %q, 期望 %q", got, tt.expected)
			}
		})
	}
}

func TestParseWordInfo(t *testing.T) {
	content := "```json\n" + `{
  "english": "abandon",
  "phonetic": "/əˈbændən/",
  "partOfSpeech": ["v."],
  "englishDef": "to give up completely",
  "chineseDef": "放弃",
  "isCET4": true,
  "isCET6": true,
  "isIELTS": false,
  "isTOEFL": false,
  "isGraduate": true,
  "cet4Freq": 5,
  "cet6Freq": 4,
  "ieltsFreq": 3,
  "toeflFreq": null,
  "graduateFreq": 9
}` + "\n```"

	info, ok := parseWordInfo(content)
	if !ok {
		t.Fatalf("解析失败")
	}
	if info.English != "abandon" || info.ChineseDef != "放弃" {
		t.Errorf("基本字段解析错误: %+v", info)
	}
	if len(info.PartOfSpeech) != 1 || info.PartOfSpeech[0] != "v." {
		t.Errorf("partOfSpeech = %v", info.PartOfSpeech)
	}
	if info.CET4Freq == nil || *info.CET4Freq != 5 {
		t.Errorf("cet4Freq 解析错误: %v", info.CET4Freq)
	}
	// 不属于该考试时词频必须为 nil
	if info.IELTSFreq != nil {
		t.Errorf("isIELTS=false 时 ieltsFreq 应为 nil")
	}
	// 超出 1-5 的词频视为缺失
	if info.GraduateFreq != nil {
		t.Errorf("词频 9 超出范围，应为 nil")
	}
}

func TestParseWordInfoStringPartOfSpeech(t *testing.T) {
	info, ok := parseWordInfo(`{"english":"run","partOfSpeech":"v.","chineseDef":"跑"}`)
	if !ok {
		t.Fatalf("解析失败")
	}
	if len(info.PartOfSpeech) != 1 || info.PartOfSpeech[0] != "v." {
		t.Errorf("字符串词性应被包装成数组: %v", info.PartOfSpeech)
	}
}

func TestParseWordInfoDefaults(t *testing.T) {
	info, ok := parseWordInfo(`{"english":"foo"}`)
	if !ok {
		t.Fatalf("解析失败")
	}
	if info.ChineseDef != "暂无释义" {
		t.Errorf("缺失的中文释义应填默认值，实际 %q", info.ChineseDef)
	}
	if len(info.PartOfSpeech) == 0 {
		t.Errorf("词性不应为空")
	}
}

func TestParseWordInfoGarbage(t *testing.T) {
	if _, ok := parseWordInfo("不是 JSON"); ok {
		t.Errorf("垃圾内容不应解析成功")
	}
}

func TestGetWordInfoWithoutKey(t *testing.T) {
	svc := &GeminiService{apiKey: "", model: defaultGeminiModel, log: newTestLogger()}

	info := svc.GetWordInfo(context.Background(), "abandon")
	if info.English != "abandon" {
		t.Errorf("english = %q", info.English)
	}
	if info.ChineseDef != "释义获取失败" {
		t.Errorf("无 key 时应返回占位释义，实际 %q", info.ChineseDef)
	}
}

func TestGetWordInfoPlaceholderKey(t *testing.T) {
	svc := &GeminiService{apiKey: "your_api_key_here", model: defaultGeminiModel, log: newTestLogger()}

	info := svc.GetWordInfo(context.Background(), "hello")
	if info.ChineseDef != "释义获取失败" {
		t.Errorf("占位 key 应走模拟数据，实际 %q", info.ChineseDef)
	}
}

func TestGenerateDistractorsWithoutKey(t *testing.T) {
	svc := &GeminiService{apiKey: "", model: defaultGeminiModel, log: newTestLogger()}

	_, err := svc.GenerateDistractors(context.Background(), []DistractorWord{{English: "a", ChineseDef: "一"}})
	if err == nil {
		t.Errorf("无 key 时应报错，由调用方回退本地生成")
	}
}
