package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"vidcat/internal/config"
	"vidcat/internal/daemonrun"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPathFromEnv())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(ctx, cfg, daemonOptionsFromEnv()); err != nil {
		log.Fatalf("vidcatd: %v", err)
	}
}
