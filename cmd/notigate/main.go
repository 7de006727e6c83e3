package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notigate/internal/config"
	"notigate/internal/constants"
	"notigate/internal/metrics"
	"notigate/internal/service"
	"notigate/internal/tracing"
	"notigate/pkg/telegram"
	"notigate/pkg/userapi"
	"notigate/pkg/whatsapp"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes sensitive information)")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Notigate %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting Notigate")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.Info("Verbose logging enabled - sensitive information will be logged")
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	}

	// Initialize OpenTelemetry tracing
	tracingManager := tracing.NewTracingManager(tracing.TracingConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Environment:    cfg.Tracing.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
		UseStdout:      cfg.Tracing.UseStdout,
	}, logger)

	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	registry := metrics.NewRegistry()

	tgClient := telegram.NewClient(telegram.ClientConfig{
		BotToken:   cfg.Telegram.BotToken,
		APIBaseURL: cfg.Telegram.APIBaseURL,
		Timeout:    time.Duration(cfg.Telegram.TimeoutSec) * time.Second,
	}, logger)

	credential := whatsapp.NewCredential(
		cfg.WhatsApp.AppID,
		cfg.WhatsApp.AppSecret,
		cfg.WhatsApp.RefreshToken,
		cfg.WhatsApp.AccessToken,
	)
	waClient := whatsapp.NewClient(whatsapp.ClientConfig{
		APIBaseURL:    cfg.WhatsApp.APIBaseURL,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		Timeout:       time.Duration(cfg.WhatsApp.TimeoutSec) * time.Second,
	}, credential, logger)

	var userClient *userapi.Client
	if cfg.UserAPI.BaseURL != "" {
		userClient = userapi.NewClient(userapi.ClientConfig{
			BaseURL: cfg.UserAPI.BaseURL,
			APIKey:  cfg.UserAPI.APIKey,
			Timeout: time.Duration(cfg.UserAPI.TimeoutSec) * time.Second,
		}, logger)
	} else {
		logger.Info("User API not configured, profile lookup and reminders disabled")
	}

	channels := []service.Channel{
		service.NewTelegramChannel(tgClient, logger),
		service.NewWhatsAppChannel(waClient, logger),
	}
	var profiles service.ProfileStore
	if userClient != nil {
		profiles = userClient
	}
	messenger := service.NewMessenger(channels, profiles, registry, logger)

	if waClient.Enabled() {
		refreshScheduler := service.NewTokenRefreshScheduler(
			waClient,
			time.Duration(cfg.Schedulers.TokenRefreshIntervalMin)*time.Minute,
			time.Duration(cfg.Schedulers.TokenRefreshLeadMin)*time.Minute,
			logger,
		)
		refreshScheduler.Start(ctx)
		defer refreshScheduler.Stop()
	} else {
		logger.Info("WhatsApp adapter disabled, skipping token refresh scheduler")
	}

	if userClient != nil {
		reminderService := service.NewReminderService(userClient, messenger, logger)
		reminderScheduler := service.NewReminderScheduler(
			reminderService,
			time.Duration(cfg.Schedulers.ReminderIntervalSec)*time.Second,
			logger,
		)
		reminderScheduler.Start(ctx)
		defer reminderScheduler.Stop()
	}

	var resolver *service.NameResolver
	if userClient != nil {
		resolver = service.NewNameResolver(userClient, logger)
	}

	server := NewServer(cfg, messenger, resolver, registry, logger)
	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.DefaultGracefulShutdownSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	logger.Info("Server shutdown completed")
	return nil
}
