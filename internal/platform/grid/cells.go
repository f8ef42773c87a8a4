package grid

import (
	"strconv"
	"strings"
	"time"
)

// Stored cell kinds used by the SQL backends.
const (
	KindString = "s"
	KindNumber = "n"
	KindBool   = "b"
	KindTime   = "t"
)

func Text(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return ""
	}
}

func TrimText(v any) string {
	return strings.TrimSpace(Text(v))
}

func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func Number(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func DateText(v any, layout string) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(layout)
	}
	return TrimText(v)
}

func Plain(v any, layout string) any {
	switch value := v.(type) {
	case nil:
		return nil
	case time.Time:
		return value.Format(layout)
	case string:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return value
	case float64, bool:
		return value
	default:
		return Text(v)
	}
}

func Encode(v any) (kind, text string, ok bool) {
	switch value := v.(type) {
	case nil:
		return "", "", false
	case string:
		if value == "" {
			return "", "", false
		}
		return KindString, value, true
	case float64:
		return KindNumber, strconv.FormatFloat(value, 'g', -1, 64), true
	case int:
		return KindNumber, strconv.Itoa(value), true
	case int64:
		return KindNumber, strconv.FormatInt(value, 10), true
	case bool:
		return KindBool, strconv.FormatBool(value), true
	case time.Time:
		return KindTime, value.UTC().Format(time.RFC3339Nano), true
	default:
		return KindString, Text(v), true
	}
}

func Decode(kind, text string) any {
	switch kind {
	case KindNumber:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	case KindBool:
		if b, err := strconv.ParseBool(text); err == nil {
			return b
		}
	case KindTime:
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return t
		}
	}
	return text
}
