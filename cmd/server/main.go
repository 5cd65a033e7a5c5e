package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/traceaos/income-analysis-agent/internal/analysis"
	"github.com/traceaos/income-analysis-agent/internal/api"
	"github.com/traceaos/income-analysis-agent/internal/config"
	"github.com/traceaos/income-analysis-agent/internal/extractor"
	"github.com/traceaos/income-analysis-agent/internal/notify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the income analysis API server",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		logger = logger.Level(level)
	}

	ctx := logger.WithContext(cmd.Context())

	client, err := analysis.NewClient(ctx, analysis.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create analysis client: %w", err)
	}

	sender := notify.NewEmailSender(notify.EmailConfig{
		SMTPServer: cfg.SMTPServer,
		SMTPPort:   cfg.SMTPPort,
		SMTPUser:   cfg.SMTPUser,
		SMTPPass:   cfg.SMTPPass,
		FromEmail:  cfg.FromEmail,
		Enabled:    cfg.EmailSend,
	}, logger)

	handler := &api.Handler{
		Extractor:       extractor.NewPDFExtractor(),
		Analyzer:        client,
		Sender:          sender,
		Logger:          logger,
		AnalysisTimeout: cfg.AnalysisTimeout,
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB << 20,
	})
	app.Use(recover.New())
	app.Use(api.RequestLogger(&logger))
	handler.RegisterRoutes(app)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-shutdownCtx.Done()
		logger.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.Addr()).Str("model", cfg.GeminiModel).Msg("starting server")
	if err := app.Listen(cfg.Addr()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
