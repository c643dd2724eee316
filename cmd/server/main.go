package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hongyangchun/QQClub-sub003/internal/app"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/otel"
)

func main() {
	log.SetPrefix("[QQCLUB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	shutdown, err := otel.Setup(ctx, "qqclub-reading-events")
	if err != nil {
		log.Fatalf("setup telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown telemetry: %v", err)
		}
	}()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
