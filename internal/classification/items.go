package classification

import (
	"strings"

	"github.com/goccy/go-json"
)

const upstreamFailureMessage = "upstream classification failed"

// Item: URL 추출 엔드포인트가 돌려주는 외부 항목(댓글 등)입니다.
// Classification 은 선택적으로 포함되는 원본 분류 페이로드입니다.
type Item struct {
	ID             string      `json:"id"`
	Author         string      `json:"author"`
	Body           string      `json:"body"`
	Score          int         `json:"score"`
	CreatedUTC     float64     `json:"created_utc"`
	Classification RawResponse `json:"classification,omitempty"`
}

// ClassifiedItem: 정규화된 결과가 붙은 항목입니다.
// Result 가 nil 이면 분류되지 않은 항목이고, Error 는 상위 단계의 분류 실패 사유입니다.
type ClassifiedItem struct {
	Item
	Result *Result
	Error  string
}

type classifiedItemView struct {
	ID             string      `json:"id" yaml:"id"`
	Author         string      `json:"author" yaml:"author"`
	Body           string      `json:"body" yaml:"body"`
	Score          int         `json:"score" yaml:"score"`
	CreatedUTC     float64     `json:"created_utc" yaml:"created_utc"`
	Classification *ResultView `json:"classification" yaml:"classification"`
	Error          string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c ClassifiedItem) view() classifiedItemView {
	view := classifiedItemView{
		ID:         c.ID,
		Author:     c.Author,
		Body:       c.Body,
		Score:      c.Score,
		CreatedUTC: c.CreatedUTC,
		Error:      c.Error,
	}
	if c.Result != nil {
		resultView := c.Result.View()
		view.Classification = &resultView
	}
	return view
}

// MarshalJSON: 원본 페이로드 대신 정규화된 결과를 직렬화합니다.
func (c ClassifiedItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

// MarshalYAML: yaml.v3 Marshaler 구현입니다.
func (c ClassifiedItem) MarshalYAML() (any, error) {
	return c.view(), nil
}

// NormalizeItems: 항목마다 포함된 원본 페이로드를 정규화합니다.
//
// 본문이 비어 있는 항목은 제외되고, 입력 순서는 유지됩니다.
// 페이로드가 없으면 Result 는 nil, 상위 단계 실패를 보고한 페이로드는 Error 로 남습니다.
func NormalizeItems(items []Item, kind BackendKind) ([]ClassifiedItem, error) {
	if !kind.Valid() {
		return nil, &SchemaError{Kind: kind}
	}

	classified := make([]ClassifiedItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Body) == "" {
			continue
		}

		entry := ClassifiedItem{Item: item}
		if len(item.Classification) > 0 {
			if reason := upstreamFailure(item.Classification); reason != "" {
				entry.Error = reason
			} else {
				result, err := Normalize(item.Classification, kind)
				if err != nil {
					return nil, err
				}
				entry.Result = &result
			}
		}
		classified = append(classified, entry)
	}
	return classified, nil
}

// upstreamFailure 는 페이로드가 보고한 실패 사유를 반환한다. 실패가 아니면 빈 문자열.
func upstreamFailure(raw RawResponse) string {
	payload := raw.payload()
	if message, ok := payload[fieldError].(string); ok && strings.TrimSpace(message) != "" {
		return strings.TrimSpace(message)
	}
	if overall, ok := payload[fieldReportedOverall].(string); ok && strings.EqualFold(strings.TrimSpace(overall), "error") {
		return upstreamFailureMessage
	}
	return ""
}
