package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/metrics"
)

// StdinPath 는 표준 입력을 가리키는 경로다.
const StdinPath = "-"

// Format 은 입력 인코딩이다.
type Format string

const (
	// FormatAuto 는 확장자로 인코딩을 추론한다.
	FormatAuto Format = ""
	// FormatJSON 은 JSON 입력이다.
	FormatJSON Format = "json"
	// FormatYAML 은 YAML 입력이다.
	FormatYAML Format = "yaml"
)

// Mode 는 입력 하나가 담고 있는 내용의 종류다.
type Mode string

const (
	// ModeSingle 은 원본 응답 하나다.
	ModeSingle Mode = "single"
	// ModeItems 는 분류 결과가 붙은 항목 목록이다.
	ModeItems Mode = "items"
)

// Input 은 배치 입력 하나다.
type Input struct {
	Path   string
	Format Format
	Mode   Mode
}

// Outcome 은 입력 하나의 처리 결과다. Err 가 nil 이 아니면 나머지 필드는 비어 있다.
type Outcome struct {
	Input  Input
	Result *classification.Result
	Items  []classification.ClassifiedItem
	Err    error
}

// Failed: 처리 실패 여부를 반환합니다.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Runner 는 독립적인 입력들을 제한된 병렬도로 정규화한다.
type Runner struct {
	workers  int
	metrics  *metrics.Store
	logger   *slog.Logger
	readFile func(string) ([]byte, error)

	stdin     io.Reader
	stdinOnce sync.Once
	stdinData []byte
	stdinErr  error
}

// NewRunner: 설정 기반 Runner 를 생성합니다.
func NewRunner(cfg *config.Config, store *metrics.Store, logger *slog.Logger) *Runner {
	workers := 1
	if cfg != nil && cfg.Normalizer.Workers > 0 {
		workers = cfg.Normalizer.Workers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		workers:  workers,
		metrics:  store,
		logger:   logger,
		readFile: os.ReadFile,
		stdin:    os.Stdin,
	}
}

// SetStdin: "-" 입력이 읽을 reader 를 교체합니다.
func (r *Runner) SetStdin(reader io.Reader) {
	r.stdin = reader
}

// SetWorkers: 동시 처리 한도를 변경합니다. 1 미만은 1 로 맞춥니다.
func (r *Runner) SetWorkers(workers int) {
	r.workers = max(1, workers)
}

// Workers: 동시 처리 한도를 반환합니다.
func (r *Runner) Workers() int {
	return r.workers
}

// Run: 입력을 병렬로 정규화하고 입력 순서대로 결과를 반환합니다.
// 입력별 실패는 해당 Outcome 에만 기록됩니다. ctx 가 취소되면 아직 시작하지 않은 입력은
// ctx.Err() 로 표시되고 Run 도 ctx.Err() 를 반환합니다.
func (r *Runner) Run(ctx context.Context, kind classification.BackendKind, inputs []Input) ([]Outcome, error) {
	if !kind.Valid() {
		r.metrics.RecordInvalidSchema()
		return nil, &classification.SchemaError{Kind: kind}
	}

	outcomes := make([]Outcome, len(inputs))
	for i, input := range inputs {
		outcomes[i].Input = input
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range inputs {
		if err := gctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i] = r.process(kind, inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	r.logger.Info(
		"normalize_done",
		"kind", string(kind),
		"inputs", len(inputs),
		"failed", failed,
		"workers", r.workers,
	)

	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("batch canceled: %w", err)
	}
	return outcomes, nil
}

func (r *Runner) process(kind classification.BackendKind, input Input) Outcome {
	outcome := Outcome{Input: input}

	data, err := r.read(input.Path)
	if err != nil {
		return r.fail(outcome, err)
	}

	format := input.Format
	if format == FormatAuto {
		format = InferFormat(input.Path)
	}

	switch input.Mode {
	case ModeItems:
		items, err := parseItems(data, format)
		if err != nil {
			return r.fail(outcome, err)
		}
		classified, err := classification.NormalizeItems(items, kind)
		if err != nil {
			return r.fail(outcome, err)
		}
		for _, item := range classified {
			switch {
			case item.Error != "":
				r.metrics.RecordUpstreamError()
			case item.Result != nil:
				r.metrics.RecordResult(*item.Result)
			}
		}
		outcome.Items = classified
	default:
		raw, err := parseRaw(data, format)
		if err != nil {
			return r.fail(outcome, err)
		}
		result, err := classification.Normalize(raw, kind)
		if err != nil {
			return r.fail(outcome, err)
		}
		r.metrics.RecordResult(result)
		outcome.Result = &result
	}
	return outcome
}

func (r *Runner) fail(outcome Outcome, err error) Outcome {
	r.metrics.RecordInputError()
	r.logger.Warn("batch_input_failed", "path", outcome.Input.Path, "err", err)
	outcome.Err = err
	return outcome
}

func (r *Runner) read(path string) ([]byte, error) {
	if path == StdinPath {
		r.stdinOnce.Do(func() {
			if r.stdin == nil {
				return
			}
			r.stdinData, r.stdinErr = io.ReadAll(r.stdin)
		})
		if r.stdinErr != nil {
			return nil, fmt.Errorf("read stdin: %w", r.stdinErr)
		}
		return r.stdinData, nil
	}

	data, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// InferFormat: 확장자로 입력 인코딩을 추론합니다. 기본값은 JSON 입니다.
func InferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func parseRaw(data []byte, format Format) (classification.RawResponse, error) {
	if format == FormatYAML {
		return classification.ParseRawYAML(data)
	}
	return classification.ParseRaw(data)
}

func parseItems(data []byte, format Format) ([]classification.Item, error) {
	if format == FormatYAML {
		return classification.ParseItemsYAML(data)
	}
	return classification.ParseItems(data)
}
