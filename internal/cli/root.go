package cli

import (
	"github.com/spf13/cobra"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/di"
)

// options 는 모든 하위 명령이 공유하는 플래그 값이다.
type options struct {
	kind    string
	format  string
	workers int
}

// NewRootCommand 는 normalizer 루트 명령을 생성한다.
func NewRootCommand(app *di.App) *cobra.Command {
	opts := &options{
		kind:    app.Config.Normalizer.DefaultKind,
		format:  app.Config.Normalizer.OutputFormat,
		workers: app.Runner.Workers(),
	}

	root := &cobra.Command{
		Use:   "normalizer",
		Short: "Normalize toxicity classifier responses into a canonical result",
		Long: `normalizer reads raw classifier responses (multi-label {label, score} lists or
fixed-position score vectors) and prints one canonical result per input:
per-category scores plus an "overall" verdict such as "toxic + insult" or "neutral".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.kind, "kind", "k", opts.kind, "backend kind: multi_label (bert) or fixed_vector (lr)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, yaml or text")
	root.PersistentFlags().IntVarP(&opts.workers, "workers", "w", opts.workers, "number of inputs processed concurrently")

	root.AddCommand(
		newNormalizeCommand(app, opts),
		newItemsCommand(app, opts),
		newSchemaCommand(opts),
	)
	return root
}
