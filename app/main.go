package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jessevdk/go-flags"
	"github.com/lysyi3m/launch-comb/app/announcement"
	"github.com/lysyi3m/launch-comb/app/api"
	"github.com/lysyi3m/launch-comb/app/binance"
	"github.com/lysyi3m/launch-comb/app/cfg"
	"github.com/lysyi3m/launch-comb/app/notify"
	"github.com/lysyi3m/launch-comb/app/state"
	"github.com/lysyi3m/launch-comb/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	if appCfg == nil {
		return 0
	}

	setupLogging(appCfg.Debug)

	sourceConfig, err := announcement.LoadSourceConfig(appCfg.SourceConfig)
	if err != nil {
		slog.Error("Failed to load source configuration", "path", appCfg.SourceConfig, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := state.New(ctx, state.Options{
		Backend:   appCfg.StateBackend,
		Path:      appCfg.StatePath,
		RedisAddr: appCfg.RedisAddr,
		RedisKey:  appCfg.RedisKey,
	})
	if err != nil {
		slog.Error("Failed to open state store", "backend", appCfg.StateBackend, "error", err)
		return 1
	}
	defer store.Close()

	switch appCfg.Command {
	case cfg.CommandServe:
		err = serve(ctx, appCfg, sourceConfig, store)
	default:
		err = check(ctx, appCfg, sourceConfig, store)
	}

	if err != nil {
		slog.Error("Fatal error", "command", appCfg.Command, "error", err)
		return 1
	}
	return 0
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func check(ctx context.Context, appCfg *cfg.Cfg, sourceConfig *announcement.SourceConfig, store state.Store) error {
	timeout := time.Duration(appCfg.Timeout) * time.Second

	client := binance.NewClient(sourceConfig.SiteURL,
		binance.WithSource(sourceConfig),
		binance.WithTimeout(timeout),
		binance.WithUserAgent(appCfg.UserAgent))

	var notifier tasks.Notifier = notify.NewDiscord(appCfg.WebhookURL, timeout)
	if appCfg.DryRun {
		notifier = notify.NewPrinter(os.Stdout)
	}

	task := tasks.NewCheckAnnouncementsTask(sourceConfig, client, notifier, store, appCfg.DryRun)
	if err := tasks.Run(ctx, task); err != nil {
		return err
	}

	fmt.Println(task.Result.Summary())
	return nil
}

func serve(ctx context.Context, appCfg *cfg.Cfg, sourceConfig *announcement.SourceConfig, store state.Store) error {
	handler := api.NewHandler(store, sourceConfig, appCfg.BaseUrl, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "source", sourceConfig.Name, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
