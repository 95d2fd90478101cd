//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/batch"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/metrics"
)

func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		metrics.NewStore,
		batch.NewRunner,
		NewApp,
	)
	return nil, nil, nil
}
