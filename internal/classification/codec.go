package classification

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ParseRaw: JSON 바이트를 RawResponse 로 해석합니다.
// 객체 외에도 호스팅 모델의 원본 출력인 중첩 배열([[{label,score}...]])을 받아들입니다.
// 빈 문서는 빈 응답이 되며, 문법 오류만 ErrMalformedPayload 로 반환합니다.
func ParseRaw(data []byte) (RawResponse, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return RawResponse{}, nil
	}

	value, err := decodeJSON(trimmed)
	if err != nil {
		return nil, err
	}
	return rawFromValue(value)
}

// ParseRawYAML: YAML 문서를 RawResponse 로 해석합니다. (테스트 픽스처 등)
func ParseRawYAML(data []byte) (RawResponse, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return RawResponse{}, nil
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrMalformedPayload, err)
	}
	return rawFromValue(value)
}

// decodeJSON 은 숫자를 json.Number 로 남겨 둔다.
// float64 범위를 벗어난 점수 하나 때문에 문서 전체가 실패하지 않도록 변환은 coerceScore 에 맡긴다.
func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrMalformedPayload, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode json: trailing data after top-level value", ErrMalformedPayload)
	}
	return value, nil
}

func rawFromValue(value any) (RawResponse, error) {
	switch v := value.(type) {
	case nil:
		return RawResponse{}, nil
	case map[string]any:
		return RawResponse(v), nil
	case []any:
		return rawFromArray(v), nil
	default:
		return nil, fmt.Errorf("%w: unexpected top-level %T", ErrMalformedPayload, value)
	}
}

// rawFromArray 는 최상위 배열을 알맞은 필드로 옮긴다.
// 어떤 스키마로 읽을지는 여전히 Normalize 의 kind 가 결정한다.
func rawFromArray(values []any) RawResponse {
	if len(values) == 0 {
		return RawResponse{fieldPredictions: values}
	}
	if inner, ok := values[0].([]any); ok {
		return RawResponse{fieldPredictions: inner}
	}
	if _, ok := asMap(values[0]); ok {
		return RawResponse{fieldPredictions: values}
	}
	return RawResponse{fieldVector: values}
}

// ParseItems: URL 추출 응답(JSON)을 Item 목록으로 해석합니다.
// {"comments": [...]} 또는 최상위 배열을 받아들이며, 객체가 아닌 항목과
// 디코딩에 실패한 항목은 건너뜁니다.
func ParseItems(data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	value, err := decodeJSON(trimmed)
	if err != nil {
		return nil, err
	}
	return itemsFromValue(value)
}

// ParseItemsYAML: URL 추출 응답(YAML)을 Item 목록으로 해석합니다.
func ParseItemsYAML(data []byte) ([]Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrMalformedPayload, err)
	}
	return itemsFromValue(value)
}

func itemsFromValue(value any) ([]Item, error) {
	var entries []any
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		entries, _ = asSlice(v[fieldComments])
	case []any:
		entries = v
	default:
		return nil, fmt.Errorf("%w: unexpected top-level %T", ErrMalformedPayload, value)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		object, ok := asMap(entry)
		if !ok {
			continue
		}
		item, err := decodeItem(object)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeItem 은 느슨한 타입(json tag, weakly typed)으로 항목을 디코딩한다.
// 분류 페이로드는 모양이 깨져 있어도 항목 자체는 살리도록 따로 꺼낸다.
func decodeItem(input map[string]any) (Item, error) {
	fields := make(map[string]any, len(input))
	for key, value := range input {
		if key == fieldClassification {
			continue
		}
		if number, ok := value.(json.Number); ok {
			converted, ok := numberValue(number)
			if !ok {
				continue
			}
			value = converted
		}
		fields[key] = value
	}

	var item Item
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &item,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Item{}, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}

	if payload, ok := asMap(input[fieldClassification]); ok {
		item.Classification = RawResponse(payload)
	}
	return item, nil
}

// numberValue 는 항목 필드의 json.Number 를 정수 또는 유한 실수로 바꾼다.
// 표현할 수 없는 값이면 false 를 반환해 해당 필드만 비워 둔다.
func numberValue(number json.Number) (any, bool) {
	if i, err := number.Int64(); err == nil {
		return i, true
	}
	f, err := number.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}
