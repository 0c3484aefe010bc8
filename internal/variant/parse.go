package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	// ErrEnvelopeNotOK 规格接口返回 ok=false
	ErrEnvelopeNotOK = errors.New("variant envelope not ok")
	// ErrMalformedEnvelope 规格接口返回结构无法解析
	ErrMalformedEnvelope = errors.New("variant envelope malformed")
)

// Option 单个维度取值
type Option struct {
	Dimension string
	Value     string
}

// Options 有序的维度取值列表（保留 JSON 对象中的键顺序）
type Options []Option

// UnmarshalJSON 按键顺序解析 options 对象，非字符串取值尽量转成字符串
func (o *Options) UnmarshalJSON(b []byte) error {
	pairs, err := decodeOrderedObject(b)
	if err != nil {
		return err
	}
	result := make(Options, 0, len(pairs))
	for _, pair := range pairs {
		dimension := strings.TrimSpace(pair.key)
		if dimension == "" {
			continue
		}
		value, err := cast.ToStringE(pair.value)
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		result = append(result, Option{Dimension: dimension, Value: value})
	}
	*o = result
	return nil
}

// MarshalJSON 按顺序输出 options 对象
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(opt.Dimension)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get 返回某维度的取值
func (o Options) Get(dimension string) (string, bool) {
	for _, opt := range o {
		if opt.Dimension == dimension {
			return opt.Value, true
		}
	}
	return "", false
}

// ParseOptions 解析存储中的 options JSON，空值返回空列表
func ParseOptions(raw []byte) (Options, error) {
	if isBlankJSON(raw) {
		return nil, nil
	}
	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Record 单条规格记录
type Record struct {
	ID        uint
	Name      string
	Options   Options
	Price     *decimal.Decimal
	Stock     int
	Active    bool
	SortOrder int
}

type recordJSON struct {
	ID        interface{} `json:"id"`
	Name      string      `json:"name"`
	Options   Options     `json:"options"`
	Price     interface{} `json:"price"`
	Stock     interface{} `json:"stock"`
	Active    *bool       `json:"active"`
	SortOrder interface{} `json:"sortOrder"`
}

// UnmarshalJSON 宽松解析接口返回的规格记录
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	record := Record{
		ID:        cast.ToUint(raw.ID),
		Name:      strings.TrimSpace(raw.Name),
		Options:   raw.Options,
		Stock:     cast.ToInt(raw.Stock),
		Active:    true,
		SortOrder: cast.ToInt(raw.SortOrder),
	}
	if raw.Active != nil {
		record.Active = *raw.Active
	}
	if raw.Price != nil {
		if f, err := cast.ToFloat64E(raw.Price); err == nil {
			price := decimal.NewFromFloat(f).Round(2)
			record.Price = &price
		}
	}
	*r = record
	return nil
}

type variantsEnvelope struct {
	OK   bool `json:"ok"`
	Data *struct {
		Variants []Record `json:"variants"`
	} `json:"data"`
}

// ParseVariantsEnvelope 解析规格接口返回 {ok, data: {variants}}
func ParseVariantsEnvelope(raw []byte) ([]Record, error) {
	var env variantsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if !env.OK {
		return nil, ErrEnvelopeNotOK
	}
	if env.Data == nil {
		return nil, ErrMalformedEnvelope
	}
	return env.Data.Variants, nil
}

type orderedPair struct {
	key   string
	value interface{}
}

// decodeOrderedObject 逐 token 解析 JSON 对象以保留键顺序
func decodeOrderedObject(raw []byte) ([]orderedPair, error) {
	if isBlankJSON(raw) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var pairs []orderedPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, orderedPair{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func isBlankJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
