package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON 原样保存的 JSON 文本，保留对象键顺序
type RawJSON json.RawMessage

// Value 实现 driver.Valuer 接口
func (r RawJSON) Value() (driver.Value, error) {
	if len(bytes.TrimSpace(r)) == 0 {
		return nil, nil
	}
	return string(r), nil
}

// Scan 实现 sql.Scanner 接口
func (r *RawJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append(RawJSON(nil), v...)
	case string:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("unsupported raw json value %T", value)
	}
	return nil
}

// MarshalJSON 输出原始 JSON，空值输出 null
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(r)) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON 保存原始 JSON
func (r *RawJSON) UnmarshalJSON(b []byte) error {
	*r = append((*r)[0:0], b...)
	return nil
}

// Raw 转为 json.RawMessage
func (r RawJSON) Raw() json.RawMessage {
	return json.RawMessage(r)
}

// StringArray 字符串数组类型，用于存储图片、维度顺序等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported string array value %T", value)
	}
}
