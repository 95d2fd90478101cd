package cli

import (
	"github.com/spf13/cobra"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

// schemaInfo 는 정규화 규칙 요약이다.
type schemaInfo struct {
	DecisionCategories []string            `json:"decision_categories" yaml:"decision_categories"`
	OptionalCategories []string            `json:"optional_categories" yaml:"optional_categories"`
	VectorSchema       []string            `json:"vector_schema" yaml:"vector_schema"`
	Threshold          float64             `json:"threshold" yaml:"threshold"`
	Separator          string              `json:"separator" yaml:"separator"`
	Neutral            string              `json:"neutral" yaml:"neutral"`
	Kinds              map[string][]string `json:"kinds" yaml:"kinds"`
}

func newSchemaCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print categories, vector positions and the decision threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(opts.format)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), format, currentSchema())
		},
	}
}

func currentSchema() schemaInfo {
	kinds := make(map[string][]string)
	for kind, aliases := range classification.KindAliases() {
		kinds[string(kind)] = aliases
	}
	return schemaInfo{
		DecisionCategories: categoryNames(classification.DecisionCategories()),
		OptionalCategories: categoryNames(classification.OptionalCategories()),
		VectorSchema:       categoryNames(classification.VectorSchema()),
		Threshold:          classification.DecisionThreshold,
		Separator:          classification.OverallSeparator,
		Neutral:            classification.Neutral,
		Kinds:              kinds,
	}
}

func categoryNames(categories []classification.Category) []string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}
	return names
}
