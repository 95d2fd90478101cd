package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
)

const logFileName = "normalizer.log"

// NewLogger: 콘솔 로거를 만들고, LogDir 이 지정되면 회전 파일 싱크를 함께 붙입니다.
//
// console 이 nil 이면 stderr 를 씁니다 (stdout 은 정규화 결과 전용).
// 콘솔은 터미널일 때만 색상을 쓰고, 파일에는 항상 색상 없이 기록합니다.
// 반환된 cleanup 은 파일 싱크를 닫습니다.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, func(), error) {
	if console == nil {
		console = os.Stderr
	}
	level := parseLevel(cfg.Level)
	consoleHandler := newHandler(console, level, !isTerminal(console))

	file, err := openFileSink(cfg)
	if err != nil {
		return nil, nil, err
	}
	if file == nil {
		logger := slog.New(consoleHandler)
		slog.SetDefault(logger)
		return logger, func() {}, nil
	}

	logger := slog.New(fanoutHandler{consoleHandler, newHandler(file, level, true)})
	slog.SetDefault(logger)
	logger.Debug("file_logging_enabled", "path", file.Filename, "max_size_mb", file.MaxSize)

	cleanup := func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}
	return logger, cleanup, nil
}

func openFileSink(cfg config.LoggingConfig) (*lumberjack.Logger, error) {
	logDir := strings.TrimSpace(cfg.LogDir)
	if logDir == "" {
		return nil, nil
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf(
			"invalid log rotation: size=%d backups=%d age_days=%d",
			cfg.MaxSizeMB,
			cfg.MaxBackups,
			cfg.MaxAgeDays,
		)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

func newHandler(writer io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(writer, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	})
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fanoutHandler 는 레코드를 모든 하위 handler 에 전달한다.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		out = append(out, handler.WithAttrs(attrs))
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		out = append(out, handler.WithGroup(name))
	}
	return out
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
