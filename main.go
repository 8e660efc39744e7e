package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deck-tracker-bot/config"
	"deck-tracker-bot/db"
	"deck-tracker-bot/handlers"
	"deck-tracker-bot/logging"
	"deck-tracker-bot/services"
	"deck-tracker-bot/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to load configuration", "error", err)
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if config.EnvFileMissing {
		log.Info("⚠️  No .env file found, reading environment variables directly")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to open database", "error", err)
	}

	var archive utils.Archiver
	if cfg.R2Bucket != "" {
		r2, err := utils.NewR2Archive(ctx, cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2Bucket)
		if err != nil {
			log.Fatalw("failed to initialize R2 client", "error", err)
		}
		archive = r2
		log.Infow("☁️ deck lists archived to R2", "bucket", cfg.R2Bucket)
	}
	files := utils.NewDeckListStore(cfg.UploadDir, archive)
	if err := files.EnsureUploadDir(); err != nil {
		log.Fatalw("failed to ensure upload dir", "error", err)
	}

	userService := services.NewUserService(database)
	archetypeService := services.NewArchetypeService(database)
	deckService := services.NewDeckService(database, files, log)
	matchService := services.NewMatchService(database)
	matchupService := services.NewMatchupService(database)
	prompts := services.NewPromptTracker()

	if _, err := archetypeService.EnsureOthers(ctx); err != nil {
		log.Fatalw("failed to seed archetypes", "error", err)
	}

	gateway, err := handlers.NewDiscordGateway(cfg.DiscordToken, log)
	if err != nil {
		log.Fatalw("failed to create discord gateway", "error", err)
	}

	router := handlers.NewRouter(cfg.CommandPrefix, gateway, prompts, log)
	handlers.SetupCommands(router, &handlers.CommandHandlers{
		Users:      userService,
		Decks:      deckService,
		Archetypes: archetypeService,
		Matches:    matchService,
		Matchups:   matchupService,
		Prompts:    prompts,
	}, cfg.OwnerID)

	sweeper, err := services.StartPromptSweeper(prompts, 5*time.Second, log)
	if err != nil {
		log.Fatalw("failed to start prompt sweeper", "error", err)
	}

	if err := gateway.Open(ctx, router.Handle); err != nil {
		log.Fatalw("failed to connect to discord", "error", err)
	}

	var app *fiber.App
	if cfg.StatusAddr != "" {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
		handlers.SetupStatusRoutes(app, &handlers.StatusHandlers{
			Archetypes: archetypeService,
			Matchups:   matchupService,
			Log:        log,
		}, cfg.ServiceToken)

		go func() {
			if err := app.Listen(cfg.StatusAddr); err != nil {
				log.Errorw("status server error", "error", err)
			}
		}()
		log.Infow("✅ status API running", "addr", cfg.StatusAddr)
	}

	log.Infow("✅ bot running", "prefix", cfg.CommandPrefix)

	<-ctx.Done()
	log.Info("Shutting down bot...")

	if app != nil {
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Warnw("status server shutdown", "error", err)
		}
	}
	if err := sweeper.Shutdown(); err != nil {
		log.Warnw("prompt sweeper shutdown", "error", err)
	}
	if err := gateway.Close(); err != nil {
		log.Warnw("discord close", "error", err)
	}
}
