package classification

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Normalize: 원본 응답을 kind 에 맞는 스키마로 해석해 정규화된 Result 를 만듭니다.
//
// 필드 누락이나 숫자가 아닌 점수는 오류가 아니라 0 으로 처리되어, 손상된 응답도
// neutral 쪽으로 수렴한 결과를 돌려줍니다. 오류는 kind 를 인식할 수 없을 때만 반환합니다.
func Normalize(raw RawResponse, kind BackendKind) (Result, error) {
	var scores Scores
	switch kind {
	case KindMultiLabel:
		scores = scoresFromPredictions(raw.payload())
	case KindFixedVector:
		scores = scoresFromVector(raw.payload())
	default:
		return Result{}, &SchemaError{Kind: kind}
	}
	return newResult(scores), nil
}

func scoresFromPredictions(payload map[string]any) Scores {
	scores := baseScores()
	entries, _ := asSlice(payload[fieldPredictions])
	seen := make(map[Category]struct{}, len(entries))

	for _, entry := range entries {
		object, ok := asMap(entry)
		if !ok {
			continue
		}
		label, ok := object[fieldLabel].(string)
		if !ok {
			continue
		}
		category := canonicalLabel(label)
		if category == "" {
			continue
		}
		// 같은 라벨이 반복되면 첫 항목을 사용
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		scores[category] = coerceScore(object[fieldScore])
	}
	return scores
}

func scoresFromVector(payload map[string]any) Scores {
	scores := baseScores()
	vector, _ := asSlice(payload[fieldVector])
	for index, category := range vectorSchema {
		if index >= len(vector) {
			break
		}
		scores[category] = coerceScore(vector[index])
	}
	return scores
}

func decide(flagged []Category) string {
	if len(flagged) == 0 {
		return Neutral
	}
	names := make([]string, 0, len(flagged))
	for _, category := range flagged {
		names = append(names, string(category))
	}
	return strings.Join(names, OverallSeparator)
}

type float64er interface {
	Float64() (float64, error)
}

// coerceScore 는 임의의 값을 [0,1] 범위의 유한수로 변환한다. 실패하면 0.
func coerceScore(value any) float64 {
	var score float64
	switch v := value.(type) {
	case float64:
		score = v
	case float32:
		score = float64(v)
	case int:
		score = float64(v)
	case int8:
		score = float64(v)
	case int16:
		score = float64(v)
	case int32:
		score = float64(v)
	case int64:
		score = float64(v)
	case uint:
		score = float64(v)
	case uint8:
		score = float64(v)
	case uint16:
		score = float64(v)
	case uint32:
		score = float64(v)
	case uint64:
		score = float64(v)
	case float64er:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		score = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		score = parsed
	default:
		return 0
	}
	return clampScore(score)
}

func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), math.IsInf(score, 0):
		return 0
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case RawResponse:
		return v, true
	default:
		return nil, false
	}
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out, true
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
