package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/apperror"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/batch"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/toon"
)

type outputFormat string

const (
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
	outputText outputFormat = "text"
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case outputJSON, outputYAML, outputText:
		return format, nil
	default:
		return "", apperror.NewInvalidInput(fmt.Sprintf("unsupported output format %q", value))
	}
}

// record 는 입력 하나의 출력 단위다.
type record struct {
	Input  string                          `json:"input" yaml:"input"`
	Result *classification.Result          `json:"result,omitempty" yaml:"result,omitempty"`
	Items  []classification.ClassifiedItem `json:"items,omitempty" yaml:"items,omitempty"`
	Error  string                          `json:"error,omitempty" yaml:"error,omitempty"`
}

func toRecords(outcomes []batch.Outcome) []record {
	records := make([]record, 0, len(outcomes))
	for _, outcome := range outcomes {
		rec := record{Input: outcome.Input.Path, Result: outcome.Result, Items: outcome.Items}
		if outcome.Err != nil {
			rec.Error = outcome.Err.Error()
		}
		records = append(records, rec)
	}
	return records
}

// writeOutcomes 는 결과를 출력한다. text 형식은 마지막에 처리 통계를 덧붙인다.
func writeOutcomes(w io.Writer, format outputFormat, outcomes []batch.Outcome, stats map[string]float64) error {
	if format != outputText {
		return writeValue(w, format, toRecords(outcomes))
	}

	blocks := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		var body string
		switch {
		case outcome.Err != nil:
			body = "error: " + toon.Encode(outcome.Err.Error())
		case outcome.Input.Mode == batch.ModeItems:
			body = toon.EncodeItems(outcome.Items)
		case outcome.Result != nil:
			body = toon.EncodeResult(*outcome.Result)
		}
		blocks = append(blocks, "# "+outcome.Input.Path+"\n"+body)
	}
	if len(stats) > 0 {
		blocks = append(blocks, "# stats\n"+toon.Encode(stats))
	}
	_, err := fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeValue(w io.Writer, format outputFormat, value any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case outputYAML:
		data, err = yaml.Marshal(value)
	case outputText:
		data = []byte(toon.Encode(toMap(value)) + "\n")
	default:
		data, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("encode %s output: %w", format, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// toMap 은 text 출력을 위해 값을 JSON 태그 기준 map 으로 바꾼다.
func toMap(value any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return value
	}
	return out
}
