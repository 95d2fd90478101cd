package di

import (
	"fmt"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/batch"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/metrics"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 과 정리 함수를 반환한다.
func InitializeApp() (*App, func(), error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	return NewAppFromConfig(cfg)
}

// NewAppFromConfig 는 이미 로드된 설정으로 App 을 조립한다.
func NewAppFromConfig(cfg *config.Config) (*App, func(), error) {
	metricsStore := metrics.NewStore()

	logger, cleanup, err := ProvideLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}

	runner := batch.NewRunner(cfg, metricsStore, logger)

	return NewApp(cfg, logger, metricsStore, runner), cleanup, nil
}
