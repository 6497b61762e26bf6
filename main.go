package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scholar-retriever/bootstrap"
	"scholar-retriever/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx); err != nil {
		logger.L().Error("service exited", "err", err)
		os.Exit(1)
	}
}
