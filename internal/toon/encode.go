package toon

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

const unclassified = "unclassified"

// Encode: 값을 Toon 포맷 문자열로 변환합니다.
func Encode(value any) string {
	return encode(value, 0)
}

// EncodeResult: 분류 결과를 overall 과 점수 표로 렌더링합니다.
//
//	overall: toxic + insult
//	scores[4]{category,score}:
//	 toxic,0.9
func EncodeResult(result classification.Result) string {
	lines := []string{"overall: " + encodeString(result.Overall())}
	lines = append(lines, scoreTable(result, "")...)
	return strings.Join(lines, "\n")
}

// EncodeItems: 분류된 항목 목록을 렌더링합니다.
func EncodeItems(items []classification.ClassifiedItem) string {
	if len(items) == 0 {
		return "items[0]: []"
	}

	lines := []string{fmt.Sprintf("items[%d]:", len(items))}
	for _, item := range items {
		lines = append(lines, " - id: "+encodeString(item.ID))
		lines = append(lines,
			"   author: "+encodeString(item.Author),
			"   body: "+encodeString(item.Body),
			"   score: "+strconv.Itoa(item.Score),
		)
		switch {
		case item.Error != "":
			lines = append(lines, "   error: "+encodeString(item.Error))
		case item.Result == nil:
			lines = append(lines, "   overall: "+unclassified)
		default:
			lines = append(lines, "   overall: "+encodeString(item.Result.Overall()))
			lines = append(lines, scoreTable(*item.Result, "   ")...)
		}
	}
	return strings.Join(lines, "\n")
}

func scoreTable(result classification.Result, prefix string) []string {
	categories := result.Categories()
	lines := make([]string, 0, len(categories)+1)
	lines = append(lines, fmt.Sprintf("%sscores[%d]{category,score}:", prefix, len(categories)))
	for _, category := range categories {
		row := encodeString(string(category)) + "," + formatFloat(result.Score(category))
		lines = append(lines, prefix+" "+row)
	}
	return lines
}

func encode(value any, indent int) string {
	if primitive, ok := formatPrimitive(value); ok {
		return primitive
	}
	if slice, ok := toSlice(value); ok {
		return encodeSlice(slice, indent)
	}
	if mapping, ok := toStringMap(value); ok {
		return encodeMap(mapping, indent)
	}
	return fmt.Sprint(value)
}

func encodeSlice(slice []any, indent int) string {
	if len(slice) == 0 {
		return "[]"
	}
	if allPrimitive(slice) {
		items := make([]string, 0, len(slice))
		for _, item := range slice {
			items = append(items, encode(item, 0))
		}
		return fmt.Sprintf("[%d]: %s", len(slice), strings.Join(items, ","))
	}

	prefix := strings.Repeat(" ", indent)
	lines := []string{fmt.Sprintf("[%d]:", len(slice))}
	for _, item := range slice {
		lines = append(lines, fmt.Sprintf("%s - %s", prefix, encode(item, indent+2)))
	}
	return strings.Join(lines, "\n")
}

func encodeMap(mapping map[string]any, indent int) string {
	if len(mapping) == 0 {
		return "{}"
	}
	prefix := strings.Repeat(" ", indent)
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		entry := mapping[key]
		if nested, ok := toStringMap(entry); ok && len(nested) > 0 {
			lines = append(lines, fmt.Sprintf("%s%s:", prefix, key))
			lines = append(lines, encodeMap(nested, indent+2))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, key, encode(entry, indent)))
	}
	return strings.Join(lines, "\n")
}

func formatPrimitive(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(v), true
	case string:
		return encodeString(v), true
	case classification.Category:
		return encodeString(string(v)), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float32:
		return formatFloat(float64(v)), true
	case float64:
		return formatFloat(v), true
	default:
		return "", false
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func encodeString(value string) string {
	if strings.ContainsAny(value, ",:\n\"'") {
		escaped := strings.ReplaceAll(value, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		return "\"" + escaped + "\""
	}
	return value
}

func allPrimitive(values []any) bool {
	for _, value := range values {
		if _, ok := formatPrimitive(value); !ok {
			return false
		}
	}
	return true
}

func toSlice(value any) ([]any, bool) {
	if v, ok := value.([]any); ok {
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toStringMap(value any) (map[string]any, bool) {
	if v, ok := value.(map[string]any); ok {
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}
	return out, true
}
