package di

import (
	"fmt"
	"log/slog"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/logging"
)

// ProvideLogger: 로거와 파일 싱크 정리 함수를 반환합니다.
// 콘솔 로그는 stderr 로 보내 stdout 의 정규화 결과와 섞이지 않게 합니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, cleanup, err := logging.NewLogger(cfg.Logging, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, cleanup, nil
}
