package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/larriantoniy/wx_isfriend/internal/adapters/console"
	"github.com/larriantoniy/wx_isfriend/internal/adapters/notify"
	"github.com/larriantoniy/wx_isfriend/internal/adapters/qr"
	"github.com/larriantoniy/wx_isfriend/internal/adapters/store"
	"github.com/larriantoniy/wx_isfriend/internal/adapters/webwx"
	"github.com/larriantoniy/wx_isfriend/internal/config"
	"github.com/larriantoniy/wx_isfriend/internal/ports"
	"github.com/larriantoniy/wx_isfriend/internal/useCases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := setupLogger(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("exit")
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg.Preflight {
		webwx.Preflight(ctx, logger.With("component", "preflight"), cfg.LoginHost, cfg.Proxy)
	}

	httpClient, err := webwx.NewHTTPClient(cfg.HTTPTimeout, cfg.Proxy)
	if err != nil {
		return err
	}
	transport := webwx.NewTransport(httpClient, logger.With("component", "transport"))
	client := webwx.NewClient(transport, webwx.Options{
		LoginHost: cfg.LoginHost,
		AppID:     cfg.AppID,
		Lang:      cfg.Lang,
		DeviceID:  cfg.DeviceID,
	}, logger.With("component", "webwx"))

	checkpoints, err := store.Open(ctx, store.Config{
		Driver:        cfg.Store.Driver,
		TTL:           cfg.Store.TTL,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
		PostgresDSN:   cfg.Store.PostgresDSN,
	}, logger.With("component", "store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := checkpoints.Close(context.Background()); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	printer := console.NewPrinter(os.Stdout, cfg.QR.Path)
	sched := useCases.NewTimerScheduler()

	login := useCases.NewLogin(
		client,
		qr.NewFileDisplay(cfg.QR.Path, cfg.QR.Open, logger.With("component", "qr")),
		printer,
		sched,
		logger.With("component", "login"),
		useCases.LoginOptions{
			PollInterval: cfg.Login.PollInterval,
			MaxAttempts:  cfg.Login.MaxAttempts,
			Timeout:      cfg.Login.Timeout,
		},
	)

	detector := useCases.NewDetector(client, sched, checkpoints, logger.With("component", "detector"),
		useCases.DetectorOptions{
			BatchSize: cfg.Probe.BatchSize,
			Interval:  cfg.Probe.Interval,
		},
	)
	detector.OnProgress(printer.Progress)

	notifiers := []ports.Notifier{printer}
	if cfg.Report.Path != "" {
		notifiers = append(notifiers, notify.NewYAMLExporter(cfg.Report.Path))
	}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger.With("component", "telegram"))
		if err != nil {
			logger.Warn("telegram notifier disabled", "error", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	runner := useCases.NewRunner(login, client, detector, logger, notifiers...)
	if _, err := runner.Run(ctx); err != nil {
		printer.Fatal(err)
		return err
	}
	return nil
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case config.EnvDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return logger
}
