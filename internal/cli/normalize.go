package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/apperror"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/batch"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/di"
)

func newNormalizeCommand(app *di.App, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize FILE...",
		Short: "Normalize raw classifier responses",
		Long: `Each FILE holds one raw classifier response as JSON, or YAML when the file
ends in .yml/.yaml. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, opts, args, batch.ModeSingle)
		},
	}
}

func newItemsCommand(app *di.App, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "items FILE...",
		Short: "Normalize the classification attached to each extracted item",
		Long: `Each FILE holds an extract-by-URL response: {"comments": [...]} or a bare list of
items with id, author, body, score, created_utc and an optional classification
payload. Items with a blank body are dropped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, opts, args, batch.ModeItems)
		},
	}
}

func run(cmd *cobra.Command, app *di.App, opts *options, paths []string, mode batch.Mode) error {
	kind, err := classification.ParseBackendKind(opts.kind)
	if err != nil {
		app.Metrics.RecordInvalidSchema()
		return err
	}
	format, err := parseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	inputs := make([]batch.Input, 0, len(paths))
	for _, path := range paths {
		inputs = append(inputs, batch.Input{Path: path, Mode: mode})
	}

	app.Runner.SetWorkers(opts.workers)
	app.Runner.SetStdin(cmd.InOrStdin())

	outcomes, runErr := app.Runner.Run(cmd.Context(), kind, inputs)
	if outcomes == nil && runErr != nil {
		return fmt.Errorf("run batch: %w", runErr)
	}

	// 취소된 경우에도 이미 끝난 입력의 결과는 출력한다.
	stats := app.Metrics.Snapshot()
	app.Logger.Debug("metrics_snapshot", "stats", stats)
	if err := writeOutcomes(cmd.OutOrStdout(), format, outcomes, stats); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run batch: %w", runErr)
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return apperror.NewInputFailures(failed, len(outcomes))
	}
	return nil
}
