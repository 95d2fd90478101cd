package classification

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema 는 알 수 없는 backend kind 가 전달되었을 때의 오류다.
var ErrInvalidSchema = errors.New("invalid schema")

// ErrMalformedPayload 는 원본 응답 바이트를 해석할 수 없을 때의 오류다.
var ErrMalformedPayload = errors.New("malformed payload")

// BackendKind: 원본 응답이 어떤 스키마를 따르는지 나타내는 명시적 태그입니다.
// 호출자가 어떤 엔드포인트를 호출했는지에 따라 지정하며, 응답 모양으로 추론하지 않습니다.
type BackendKind string

const (
	// KindMultiLabel 은 {label, score} 목록을 돌려주는 다중 라벨 모델이다.
	KindMultiLabel BackendKind = "multi_label"
	// KindFixedVector 는 고정 위치 점수 벡터를 돌려주는 모델이다.
	KindFixedVector BackendKind = "fixed_vector"
)

var kindAliases = map[string]BackendKind{
	"multi_label":  KindMultiLabel,
	"bert":         KindMultiLabel,
	"shapea":       KindMultiLabel,
	"fixed_vector": KindFixedVector,
	"lr":           KindFixedVector,
	"logistic":     KindFixedVector,
	"shapeb":       KindFixedVector,
}

// Valid: 인식 가능한 kind 인지 여부를 반환합니다.
func (k BackendKind) Valid() bool {
	return k == KindMultiLabel || k == KindFixedVector
}

// ParseBackendKind: 문자열(별칭 포함)을 BackendKind 로 변환합니다.
func ParseBackendKind(value string) (BackendKind, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if kind, ok := kindAliases[key]; ok {
		return kind, nil
	}
	return "", &SchemaError{Kind: BackendKind(value)}
}

// KindAliases: kind 별로 허용되는 별칭 목록을 반환합니다.
func KindAliases() map[BackendKind][]string {
	return map[BackendKind][]string{
		KindMultiLabel:  {"multi_label", "bert", "shapeA"},
		KindFixedVector: {"fixed_vector", "lr", "logistic", "shapeB"},
	}
}

// SchemaError: 알 수 없는 backend kind 오류입니다.
type SchemaError struct {
	Kind BackendKind
}

// Error: 오류 메시지를 반환합니다.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema: unrecognized backend kind %q", string(e.Kind))
}

// Unwrap: errors.Is(err, ErrInvalidSchema) 를 지원합니다.
func (e *SchemaError) Unwrap() error {
	return ErrInvalidSchema
}

// RawResponse: 백엔드가 돌려준 원본 응답 객체입니다. (JSON/YAML object)
type RawResponse map[string]any

const (
	fieldEnvelope        = "final_prediction"
	fieldPredictions     = "all_predictions"
	fieldVector          = "prediction"
	fieldLabel           = "label"
	fieldScore           = "score"
	fieldError           = "error"
	fieldReportedOverall = "overall_classification"
	fieldComments        = "comments"
	fieldClassification  = "classification"
)

// payload 는 final_prediction 봉투가 있으면 벗겨서 돌려준다.
func (r RawResponse) payload() map[string]any {
	if envelope, ok := asMap(r[fieldEnvelope]); ok {
		return envelope
	}
	return r
}

// Scores: 카테고리별 정규화된 점수입니다. 값은 항상 [0,1] 범위의 유한수입니다.
type Scores map[Category]float64

func baseScores() Scores {
	scores := make(Scores, len(decisionCategories)+len(optionalCategories))
	for _, category := range decisionCategories {
		scores[category] = 0
	}
	return scores
}
