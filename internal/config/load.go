package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

var (
	configOnce  sync.Once
	configValue *Config

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := classification.ParseBackendKind(c.Normalizer.DefaultKind); err != nil {
		return fmt.Errorf("validate config: default kind: %w", err)
	}
	return nil
}

// DefaultKind 는 설정된 기본 backend kind 를 반환한다.
func (c *Config) DefaultKind() classification.BackendKind {
	if c == nil {
		return classification.KindMultiLabel
	}
	kind, err := classification.ParseBackendKind(c.Normalizer.DefaultKind)
	if err != nil {
		return classification.KindMultiLabel
	}
	return kind
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"log_level", cfg.Logging.Level,
		"log_dir", cfg.Logging.LogDir,
		"default_kind", cfg.Normalizer.DefaultKind,
		"output_format", cfg.Normalizer.OutputFormat,
		"workers", cfg.Normalizer.Workers,
		"threshold", classification.DecisionThreshold,
	)
}

func buildConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      getEnvLowerString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvNonNegativeInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvNonNegativeInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvNonNegativeInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		Normalizer: NormalizerConfig{
			DefaultKind:  getEnvString("NORMALIZER_DEFAULT_KIND", string(classification.KindMultiLabel)),
			OutputFormat: getEnvLowerString("NORMALIZER_OUTPUT_FORMAT", "json"),
			Workers:      max(1, getEnvInt("NORMALIZER_WORKERS", 4)),
		},
	}
}
