package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/apperror"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/cli"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/config"
	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/di"
)

func main() {
	os.Exit(run())
}

func run() int {
	app, cleanup, err := di.InitializeApp()
	if err != nil {
		return report(err)
	}
	defer cleanup()
	config.LogEnvStatus(app.Config, app.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		return report(err)
	}
	return 0
}

func report(err error) int {
	code, body := apperror.Response(err)
	data, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return code
	}
	fmt.Fprintln(os.Stderr, string(data))
	return code
}
