package classification

import (
	stdjson "encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
)

func predictions(pairs ...any) RawResponse {
	entries := make([]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, map[string]any{"label": pairs[i], "score": pairs[i+1]})
	}
	return RawResponse{"all_predictions": entries}
}

func vector(values ...any) RawResponse {
	return RawResponse{"prediction": values}
}

func mustNormalize(t *testing.T, raw RawResponse, kind BackendKind) Result {
	t.Helper()
	result, err := Normalize(raw, kind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestNormalizeMultiLabelFlagsInFixedOrder(t *testing.T) {
	raw := predictions(
		"threat", 0.7,
		"Toxic", 0.8,
		"insult", 0.3,
		"OBSCENE", 0.5,
	)
	result := mustNormalize(t, raw, KindMultiLabel)

	if result.Overall() != "toxic + obscene + threat" {
		t.Fatalf("unexpected overall: %q", result.Overall())
	}
	if result.Score(CategoryInsult) != 0.3 {
		t.Fatalf("unexpected insult score: %v", result.Score(CategoryInsult))
	}
	flagged := result.Flagged()
	if len(flagged) != 3 || flagged[0] != CategoryToxic || flagged[2] != CategoryThreat {
		t.Fatalf("unexpected flagged: %v", flagged)
	}
}

func TestNormalizeNeutralWhenAllBelowThreshold(t *testing.T) {
	raw := predictions("toxic", 0.49, "obscene", 0.1, "insult", 0.2, "threat", 0.0)
	result := mustNormalize(t, raw, KindMultiLabel)
	if !result.IsNeutral() || result.Overall() != Neutral {
		t.Fatalf("expected neutral, got %q", result.Overall())
	}
	if len(result.Flagged()) != 0 {
		t.Fatalf("expected no flagged categories")
	}
}

func TestNormalizeEmptyPredictions(t *testing.T) {
	result := mustNormalize(t, RawResponse{"all_predictions": []any{}}, KindMultiLabel)

	scores := result.Scores()
	if len(scores) != 4 {
		t.Fatalf("expected four categories, got %v", scores)
	}
	for _, category := range DecisionCategories() {
		value, ok := scores[category]
		if !ok || value != 0 {
			t.Fatalf("expected %s=0, got %v (present=%v)", category, value, ok)
		}
	}
	if result.Overall() != Neutral {
		t.Fatalf("expected neutral, got %q", result.Overall())
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	for _, kind := range []BackendKind{KindMultiLabel, KindFixedVector} {
		for _, raw := range []RawResponse{nil, {}, {"all_predictions": "oops"}, {"prediction": 3}} {
			result := mustNormalize(t, raw, kind)
			if result.Overall() != Neutral {
				t.Fatalf("kind=%s raw=%v: expected neutral, got %q", kind, raw, result.Overall())
			}
		}
	}
}

func TestNormalizeVectorMapping(t *testing.T) {
	result := mustNormalize(t, vector(0.9, 0.1, 0.6, 0.2), KindFixedVector)

	want := Scores{
		CategoryToxic:   0.9,
		CategoryObscene: 0.1,
		CategoryInsult:  0.6,
		CategoryThreat:  0.2,
	}
	got := result.Scores()
	if len(got) != len(want) {
		t.Fatalf("unexpected scores: %v", got)
	}
	for category, value := range want {
		if got[category] != value {
			t.Fatalf("%s: got %v want %v", category, got[category], value)
		}
	}
	if result.Overall() != "toxic + insult" {
		t.Fatalf("unexpected overall: %q", result.Overall())
	}
}

func TestNormalizeVectorSchemaBounds(t *testing.T) {
	result := mustNormalize(t, vector(0.1, 0.2, 0.3, 0.4, 0.9, 0.99), KindFixedVector)
	if result.Score(CategoryIdentityHate) != 0.9 {
		t.Fatalf("expected identity_hate preserved, got %v", result.Score(CategoryIdentityHate))
	}
	if len(result.Scores()) != 5 {
		t.Fatalf("expected positions beyond schema to be ignored: %v", result.Scores())
	}
	if result.Overall() != Neutral {
		t.Fatalf("optional category must not flag, got %q", result.Overall())
	}

	short := mustNormalize(t, vector(0.7), KindFixedVector)
	if short.Score(CategoryToxic) != 0.7 || short.Score(CategoryThreat) != 0 {
		t.Fatalf("unexpected short vector scores: %v", short.Scores())
	}
	if short.Overall() != "toxic" {
		t.Fatalf("unexpected overall: %q", short.Overall())
	}
}

func TestNormalizeVectorIgnoresReportedLabel(t *testing.T) {
	raw := RawResponse{"prediction": []any{0.1, 0.1, 0.1, 0.1}, "label": "toxic"}
	result := mustNormalize(t, raw, KindFixedVector)
	if result.Overall() != Neutral {
		t.Fatalf("reported label must not decide overall, got %q", result.Overall())
	}
}

func TestNormalizeThresholdBoundary(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		flagged bool
	}{
		{name: "exactly threshold", score: 0.5, flagged: true},
		{name: "just below", score: 0.4999, flagged: false},
		{name: "one", score: 1, flagged: true},
		{name: "zero", score: 0, flagged: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNormalize(t, predictions("threat", tt.score), KindMultiLabel)
			b := mustNormalize(t, vector(0, 0, 0, tt.score), KindFixedVector)
			for _, result := range []Result{a, b} {
				isFlagged := result.Overall() == "threat"
				if isFlagged != tt.flagged {
					t.Fatalf("score %v: overall=%q, want flagged=%v", tt.score, result.Overall(), tt.flagged)
				}
			}
		})
	}
}

func TestNormalizeCoercesNonNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{name: "nan", value: math.NaN(), want: 0},
		{name: "inf", value: math.Inf(1), want: 0},
		{name: "negative inf", value: math.Inf(-1), want: 0},
		{name: "text", value: "abc", want: 0},
		{name: "nil", value: nil, want: 0},
		{name: "bool", value: true, want: 0},
		{name: "object", value: map[string]any{"x": 1}, want: 0},
		{name: "numeric string", value: " 0.75 ", want: 0.75},
		{name: "nan string", value: "NaN", want: 0},
		{name: "json number", value: stdjson.Number("0.6"), want: 0.6},
		{name: "int", value: 1, want: 1},
		{name: "float32", value: float32(0.25), want: 0.25},
		{name: "negative", value: -0.3, want: 0},
		{name: "above one", value: 1.7, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNormalize(t, predictions("toxic", tt.value), KindMultiLabel)
			b := mustNormalize(t, vector(tt.value), KindFixedVector)
			if a.Score(CategoryToxic) != tt.want || b.Score(CategoryToxic) != tt.want {
				t.Fatalf("got %v / %v, want %v", a.Score(CategoryToxic), b.Score(CategoryToxic), tt.want)
			}
		})
	}
}

func TestNormalizePreservesExtraLabels(t *testing.T) {
	raw := predictions("spam", 0.99, "severe_toxic", 0.8, "toxic", 0.1)
	result := mustNormalize(t, raw, KindMultiLabel)

	if result.Score("spam") != 0.99 {
		t.Fatalf("expected extra label preserved, got %v", result.Scores())
	}
	if result.Score(CategorySevereToxic) != 0.8 {
		t.Fatalf("expected severe_toxic preserved")
	}
	if result.Overall() != Neutral {
		t.Fatalf("extra labels must not flag, got %q", result.Overall())
	}

	categories := result.Categories()
	want := []Category{CategoryToxic, CategoryObscene, CategoryInsult, CategoryThreat, CategorySevereToxic, "spam"}
	if len(categories) != len(want) {
		t.Fatalf("unexpected categories: %v", categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("categories[%d]=%s want %s", i, categories[i], want[i])
		}
	}
}

func TestNormalizeLabelAliasesAndDuplicates(t *testing.T) {
	raw := predictions(
		"LABEL_2", 0.8,
		" label_0 ", 0.55,
		"insult", 0.1,
		"", 0.9,
		42, 0.9,
	)
	result := mustNormalize(t, raw, KindMultiLabel)

	if result.Score(CategoryInsult) != 0.8 {
		t.Fatalf("expected first insult entry to win, got %v", result.Score(CategoryInsult))
	}
	if result.Overall() != "toxic + insult" {
		t.Fatalf("unexpected overall: %q", result.Overall())
	}
	if len(result.Scores()) != 4 {
		t.Fatalf("blank or non-string labels must be skipped: %v", result.Scores())
	}
}

func TestNormalizeUnwrapsEnvelope(t *testing.T) {
	raw := RawResponse{
		"final_prediction": map[string]any{
			"label":           "toxic",
			"score":           0.91,
			"all_predictions": []any{map[string]any{"label": "toxic", "score": 0.91}},
			"prediction":      []any{0.2, 0.7, 0.1, 0.0, 0.0},
		},
	}

	multi := mustNormalize(t, raw, KindMultiLabel)
	if multi.Overall() != "toxic" {
		t.Fatalf("unexpected multi-label overall: %q", multi.Overall())
	}
	fixed := mustNormalize(t, raw, KindFixedVector)
	if fixed.Overall() != "obscene" {
		t.Fatalf("unexpected fixed-vector overall: %q", fixed.Overall())
	}
}

func TestNormalizeInvalidSchema(t *testing.T) {
	_, err := Normalize(predictions("toxic", 0.9), BackendKind("gpt"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) || schemaErr.Kind != "gpt" {
		t.Fatalf("expected SchemaError with kind, got %#v", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []struct {
		raw  RawResponse
		kind BackendKind
	}{
		{raw: predictions("toxic", 0.9, "insult", 0.51, "spam", 0.3), kind: KindMultiLabel},
		{raw: predictions(), kind: KindMultiLabel},
		{raw: vector(0.9, 0.1, 0.6, 0.2, 0.8), kind: KindFixedVector},
		{raw: vector("x", math.NaN()), kind: KindFixedVector},
	}

	for _, input := range inputs {
		first := mustNormalize(t, input.raw, input.kind)
		second := mustNormalize(t, first.Raw(), KindMultiLabel)
		if !first.Equal(second) {
			t.Fatalf("re-normalization drifted: %v -> %v", first.View(), second.View())
		}
		third := mustNormalize(t, second.Raw(), KindMultiLabel)
		if !second.Equal(third) {
			t.Fatalf("second re-normalization drifted")
		}
	}
}

func TestResultDominantTieBreak(t *testing.T) {
	result := mustNormalize(t, predictions("insult", 0.6, "toxic", 0.6, "threat", 0.2), KindMultiLabel)
	category, score := result.Dominant()
	if category != CategoryToxic || score != 0.6 {
		t.Fatalf("expected toxic to win tie, got %s %v", category, score)
	}

	empty := mustNormalize(t, nil, KindMultiLabel)
	category, score = empty.Dominant()
	if category != CategoryToxic || score != 0 {
		t.Fatalf("unexpected dominant for empty result: %s %v", category, score)
	}
}

func TestResultIsImmutable(t *testing.T) {
	result := mustNormalize(t, vector(0.9), KindFixedVector)
	scores := result.Scores()
	scores[CategoryToxic] = 0
	if result.Score(CategoryToxic) != 0.9 {
		t.Fatalf("mutating Scores() copy changed the result")
	}
}

func TestZeroResultIsNeutral(t *testing.T) {
	var result Result
	if result.Overall() != Neutral || !result.IsNeutral() {
		t.Fatalf("zero value should be neutral")
	}
	if len(result.Scores()) != 4 {
		t.Fatalf("zero value should expose four zero scores")
	}
}

func TestNormalizeConcurrentCalls(t *testing.T) {
	raw := predictions("toxic", 0.7, "threat", 0.9)
	want := mustNormalize(t, raw, KindMultiLabel)

	var wg sync.WaitGroup
	failures := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Normalize(raw, KindMultiLabel)
			if err != nil || !got.Equal(want) {
				failures <- got.Overall()
			}
		}()
	}
	wg.Wait()
	close(failures)
	for overall := range failures {
		t.Fatalf("concurrent normalization diverged: %q", overall)
	}
}

func TestParseBackendKind(t *testing.T) {
	tests := []struct {
		input string
		want  BackendKind
	}{
		{"bert", KindMultiLabel},
		{"shapeA", KindMultiLabel},
		{" MULTI_LABEL ", KindMultiLabel},
		{"lr", KindFixedVector},
		{"Logistic", KindFixedVector},
		{"shapeB", KindFixedVector},
		{"fixed_vector", KindFixedVector},
	}
	for _, tt := range tests {
		got, err := ParseBackendKind(tt.input)
		if err != nil || got != tt.want {
			t.Fatalf("ParseBackendKind(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	if _, err := ParseBackendKind("svm"); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestCategoryHelpers(t *testing.T) {
	if !CategoryThreat.Decisive() || CategoryIdentityHate.Decisive() {
		t.Fatalf("unexpected decisive flags")
	}
	if !CategorySevereToxic.Known() || Category("spam").Known() {
		t.Fatalf("unexpected known flags")
	}

	categories := DecisionCategories()
	categories[0] = "mutated"
	if DecisionCategories()[0] != CategoryToxic {
		t.Fatalf("DecisionCategories must return a copy")
	}
	if len(VectorSchema()) != 5 || VectorSchema()[4] != CategoryIdentityHate {
		t.Fatalf("unexpected vector schema: %v", VectorSchema())
	}
}
