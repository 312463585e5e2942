package main

import (
	"context"
	"os"
	"time"

	"github.com/yndnr/ipadmin-go/internal/cli/command"
	"github.com/yndnr/ipadmin-go/internal/infra/shutdown"
)

func main() {
	os.Exit(run())
}

func run() int {
	handler := shutdown.NewHandler(5 * time.Second)
	ctx, stop := handler.Context(context.Background())
	defer stop()

	code := command.Main(ctx, command.Options{Shutdown: handler}, os.Args)
	if err := handler.Shutdown(); err != nil && code == 0 {
		code = 1
	}
	return code
}
