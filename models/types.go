package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList 以 JSON 列存储字符串数组。
// 数据库里的脏数据一律当作空数组处理，解析错误不会进入业务层。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	b, ok := normalizeJSONValue(value)
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	*l = out
	return nil
}

// UintList 以 JSON 列存储 ID 列表。
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		l = UintList{}
	}
	return json.Marshal(l)
}

func (l *UintList) Scan(value interface{}) error {
	*l = UintList{}
	b, ok := normalizeJSONValue(value)
	if !ok {
		return nil
	}
	var out []uint
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	*l = out
	return nil
}

func (l UintList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Phase2Entry 是为一个单词生成的选择题方案：选项列表和正确答案下标。
// Phase2Plan 中 entry 的先后顺序就是阶段2的出题顺序。
type Phase2Entry struct {
	WordID       uint     `json:"wordId"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Phase2Plan 在创建考核时一次性生成并原样落库，之后绝不重新生成，
// 否则 correctIndex 会和已判分的记录错位。
type Phase2Plan []Phase2Entry

func (p Phase2Plan) Value() (driver.Value, error) {
	if p == nil {
		p = Phase2Plan{}
	}
	return json.Marshal(p)
}

func (p *Phase2Plan) Scan(value interface{}) error {
	*p = Phase2Plan{}
	b, ok := normalizeJSONValue(value)
	if !ok {
		return nil
	}
	var out []Phase2Entry
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	*p = out
	return nil
}

func (p Phase2Plan) Find(wordID uint) (Phase2Entry, bool) {
	for _, e := range p {
		if e.WordID == wordID {
			return e, true
		}
	}
	return Phase2Entry{}, false
}

func normalizeJSONValue(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, len(v) > 0
	case string:
		return []byte(v), len(v) > 0
	default:
		return []byte(fmt.Sprintf("%v", v)), true
	}
}
