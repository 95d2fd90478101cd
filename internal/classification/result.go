package classification

import (
	"maps"
	"slices"

	"github.com/goccy/go-json"
)

// Result: 하나의 분류 요청에 대한 정규화된 결과입니다.
// 생성 이후에는 변경되지 않으며, 접근자는 복사본을 반환합니다.
type Result struct {
	scores  Scores
	overall string
}

// ResultView 는 Result 의 직렬화 표현이다.
type ResultView struct {
	CategoryScores map[string]float64 `json:"category_scores" yaml:"category_scores"`
	Overall        string             `json:"overall" yaml:"overall"`
}

func newResult(scores Scores) Result {
	result := Result{scores: scores}
	result.overall = decide(result.Flagged())
	return result
}

// Overall: "neutral" 또는 판정된 카테고리를 " + " 로 이은 문자열을 반환합니다.
func (r Result) Overall() string {
	if r.overall == "" {
		return Neutral
	}
	return r.overall
}

// IsNeutral: 판정된 카테고리가 없는지 여부를 반환합니다.
func (r Result) IsNeutral() bool {
	return r.Overall() == Neutral
}

// Scores: 카테고리 점수의 복사본을 반환합니다.
func (r Result) Scores() Scores {
	if r.scores == nil {
		return baseScores()
	}
	return maps.Clone(r.scores)
}

// Score: 카테고리 점수를 반환합니다. 없는 카테고리는 0 입니다.
func (r Result) Score(category Category) float64 {
	return r.scores[category]
}

// Flagged: 임계값 이상인 필수 카테고리를 고정 순서로 반환합니다.
func (r Result) Flagged() []Category {
	flagged := make([]Category, 0, len(decisionCategories))
	for _, category := range decisionCategories {
		if r.scores[category] >= DecisionThreshold {
			flagged = append(flagged, category)
		}
	}
	return flagged
}

// Dominant: 가장 높은 점수의 필수 카테고리를 반환합니다.
// 동점이면 고정 순서상 앞선 카테고리가 선택됩니다.
func (r Result) Dominant() (Category, float64) {
	best := decisionCategories[0]
	bestScore := r.scores[best]
	for _, category := range decisionCategories[1:] {
		if score := r.scores[category]; score > bestScore {
			best = category
			bestScore = score
		}
	}
	return best, bestScore
}

// Categories: 결과에 포함된 카테고리를 출력 순서로 반환합니다.
// 필수 → 선택(존재하는 것만) → 그 외 라벨(사전순) 순서입니다.
func (r Result) Categories() []Category {
	ordered := make([]Category, 0, len(r.scores)+len(decisionCategories))
	ordered = append(ordered, decisionCategories...)
	for _, category := range optionalCategories {
		if _, ok := r.scores[category]; ok {
			ordered = append(ordered, category)
		}
	}

	extras := make([]Category, 0)
	for category := range r.scores {
		if !category.Known() {
			extras = append(extras, category)
		}
	}
	slices.Sort(extras)
	return append(ordered, extras...)
}

// Raw: 결과를 이미 정규화된 다중 라벨 응답으로 다시 표현합니다.
// Normalize(r.Raw(), KindMultiLabel) 는 r 과 동일한 결과를 돌려줍니다.
func (r Result) Raw() RawResponse {
	categories := r.Categories()
	predictions := make([]any, 0, len(categories))
	for _, category := range categories {
		predictions = append(predictions, map[string]any{
			fieldLabel: string(category),
			fieldScore: r.scores[category],
		})
	}
	return RawResponse{fieldPredictions: predictions}
}

// Equal: 두 결과의 점수와 overall 이 같은지 비교합니다.
func (r Result) Equal(other Result) bool {
	return r.Overall() == other.Overall() && maps.Equal(r.Scores(), other.Scores())
}

// View: 직렬화용 표현을 반환합니다.
func (r Result) View() ResultView {
	scores := r.Scores()
	view := ResultView{
		CategoryScores: make(map[string]float64, len(scores)),
		Overall:        r.Overall(),
	}
	for category, score := range scores {
		view.CategoryScores[string(category)] = score
	}
	return view
}

// MarshalJSON: category_scores / overall 형태로 직렬화합니다.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.View())
}

// MarshalYAML: yaml.v3 Marshaler 구현입니다.
func (r Result) MarshalYAML() (any, error) {
	return r.View(), nil
}
