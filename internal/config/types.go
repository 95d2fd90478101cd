package config

// LoggingConfig 는 로깅 설정이다.
type LoggingConfig struct {
	Level      string `validate:"oneof=debug info warn warning error"`
	LogDir     string
	MaxSizeMB  int `validate:"min=0"`
	MaxBackups int `validate:"min=0"`
	MaxAgeDays int `validate:"min=0"`
	Compress   bool
}

// NormalizerConfig 는 정규화 CLI 기본값 설정이다.
// 판정 임계값은 의도적으로 설정 항목에 두지 않는다.
type NormalizerConfig struct {
	DefaultKind  string `validate:"required"`
	OutputFormat string `validate:"oneof=json yaml text"`
	Workers      int    `validate:"min=1,max=256"`
}

// Config 는 애플리케이션 전체 설정이다.
type Config struct {
	Logging    LoggingConfig
	Normalizer NormalizerConfig
}
