package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"SplitChart/internal/chart"
	"SplitChart/internal/collector"
	"SplitChart/internal/config"
	"SplitChart/internal/logger"
	"SplitChart/internal/metrics"
	"SplitChart/internal/notifier"
	"SplitChart/internal/render"
	"SplitChart/internal/scheduler"
	"SplitChart/internal/server"
)

func main() {
	log := logger.Component("main")
	log.Info("SplitChart starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config validation")
	}
	if _, err := logger.New(logger.Config{Level: cfg.Log.Level, OutputFile: cfg.Log.File}); err != nil {
		log.WithError(err).Fatal("init logger")
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init source
	var src collector.Source
	if cfg.Source.File != "" {
		src = collector.NewFileSource(cfg.Source.File)
	} else {
		src = &collector.MockSource{}
	}
	log.WithField("source", src.Name()).Info("data source selected")

	m := metrics.New()
	engine := chart.NewEngine(collector.NewCollector(src), cfg.ReferenceValue(), cfg.Chart.SmoothingAlpha, m)

	renderer, err := render.NewGoChartRenderer(render.Options{
		Format:      cfg.Render.Format,
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		StrokeWidth: cfg.Render.StrokeWidth,
		FillOpacity: cfg.Render.FillOpacity,
		Glow:        cfg.Render.Glow,
	})
	if err != nil {
		log.WithError(err).Fatal("init renderer")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init notifier
	var n notifier.Notifier = notifier.NewNoopNotifier()
	var tn *notifier.TelegramNotifier
	if cfg.NotificationsEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}
	engine.OnCrossing(notifier.CrossingAlerts(ctx, n, m))

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, engine, renderer, cfg.Output.File)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.WithError(err).Fatal("register cron tasks")
	}
	// First pass before serving unless disabled; otherwise the first cron tick publishes it.
	if os.Getenv("RUN_ON_START") != "false" {
		sched.RunNow()
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("Telegram polling started")
	}

	srv := server.New(engine, renderer, m)
	srv.Start(cfg.HTTP.Addr)

	log.Info("SplitChart is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	cancel()
	log.Info("SplitChart stopped")
}
