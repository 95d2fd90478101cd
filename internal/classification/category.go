package classification

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Category: 유해성 분류 카테고리 이름입니다.
type Category string

const (
	// CategoryToxic 는 일반 유해성 카테고리다.
	CategoryToxic Category = "toxic"
	// CategoryObscene 는 음란/비속어 카테고리다.
	CategoryObscene Category = "obscene"
	// CategoryInsult 는 모욕 카테고리다.
	CategoryInsult Category = "insult"
	// CategoryThreat 는 위협 카테고리다.
	CategoryThreat Category = "threat"
	// CategorySevereToxic 는 선택 카테고리다. 판정에는 쓰이지 않는다.
	CategorySevereToxic Category = "severe_toxic"
	// CategoryIdentityHate 는 선택 카테고리다. 판정에는 쓰이지 않는다.
	CategoryIdentityHate Category = "identity_hate"
)

const (
	// DecisionThreshold 는 카테고리 판정 임계값이다. 경계값(0.5)도 판정 대상에 포함된다.
	DecisionThreshold = 0.5
	// OverallSeparator 는 판정된 카테고리를 이어 붙이는 구분자다.
	OverallSeparator = " + "
	// Neutral 은 판정된 카테고리가 없을 때의 overall 값이다.
	Neutral = "neutral"
)

// 판정 순서이자 overall 조립 순서
var decisionCategories = []Category{
	CategoryToxic,
	CategoryObscene,
	CategoryInsult,
	CategoryThreat,
}

var optionalCategories = []Category{
	CategorySevereToxic,
	CategoryIdentityHate,
}

// 고정 벡터 응답의 위치별 카테고리
var vectorSchema = []Category{
	CategoryToxic,
	CategoryObscene,
	CategoryInsult,
	CategoryThreat,
	CategoryIdentityHate,
}

// 호스팅 모델이 돌려주는 범용 라벨 별칭 (키는 case-fold 된 값)
var labelAliases = map[string]Category{
	"label_0": CategoryToxic,
	"label_1": CategoryObscene,
	"label_2": CategoryInsult,
	"label_3": CategoryThreat,
	"label_4": CategoryIdentityHate,
}

// DecisionCategories: 판정에 쓰이는 필수 카테고리를 고정 순서로 반환합니다.
func DecisionCategories() []Category {
	return slices.Clone(decisionCategories)
}

// OptionalCategories: 보존만 되는 선택 카테고리를 반환합니다.
func OptionalCategories() []Category {
	return slices.Clone(optionalCategories)
}

// VectorSchema: 고정 벡터 응답의 위치별 카테고리 스키마를 반환합니다.
func VectorSchema() []Category {
	return slices.Clone(vectorSchema)
}

// Decisive: overall 판정에 참여하는 카테고리인지 여부를 반환합니다.
func (c Category) Decisive() bool {
	return slices.Contains(decisionCategories, c)
}

// Known: 닫힌 카테고리 집합(필수 + 선택)에 속하는지 여부를 반환합니다.
func (c Category) Known() bool {
	return c.Decisive() || slices.Contains(optionalCategories, c)
}

// canonicalLabel 은 라벨을 공백 제거 + case-fold 후 별칭을 해석한다.
// cases.Caser 는 상태를 가지므로 호출마다 새로 만든다.
func canonicalLabel(label string) Category {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return ""
	}
	folded := cases.Fold().String(trimmed)
	if alias, ok := labelAliases[folded]; ok {
		return alias
	}
	return Category(folded)
}
