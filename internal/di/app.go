package di

import (
	"log/slog"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/batch"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/metrics"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Store
	Runner  *batch.Runner
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	metricsStore *metrics.Store,
	runner *batch.Runner,
) *App {
	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metricsStore,
		Runner:  runner,
	}
}
