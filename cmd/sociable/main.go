package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkovalev/sociable/internal/cli"
	"github.com/dkovalev/sociable/internal/config"
	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/notifier"
	"github.com/dkovalev/sociable/internal/service"
	"github.com/dkovalev/sociable/internal/store"
	"github.com/dkovalev/sociable/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to open snapshot store", "error", err, "path", cfg.Store.Path)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to flush snapshot store", "error", err)
		}
	}()

	tokens := token.NewJWT(cfg.JWT.Secret)
	codes := notifier.NewLog(logger)

	verification := service.NewVerification(db, db, codes, logger)
	social := service.NewSocial(db, db, db, logger)
	app := &cli.App{
		Auth:          service.NewAuth(db, db, verification, social, tokens, logger),
		Verification:  verification,
		Social:        social,
		Feed:          service.NewFeed(db, db, db, db, logger),
		Notifications: service.NewNotification(db, db, logger),
		Messages:      service.NewMessage(db, db, logger),
		Logger:        logger,
	}

	root := cli.NewRoot(app)
	root.Version = fmt.Sprintf("%s (%s)", buildVersion, buildDate)

	if err := root.ExecuteContext(ctx); err != nil {
		if cli.Recoverable(err) {
			fmt.Fprintln(os.Stderr, "error:", cli.Render(err))
			os.Exit(1)
		}
		// Anything untyped may mean the snapshot and memory diverged.
		logger.Fatal("operation failed", "error", err)
	}
}
