package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/finboard/finboard/internal/cli/finboardctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(finboardctl.Run(ctx, os.Args[1:], finboardctl.Options{
		BaseURL: os.Getenv("FINBOARD_BASE_URL"),
		APIKey:  os.Getenv("FINBOARD_API_KEY"),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}))
}
