package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctchen222/Solo-Tic-Tac-Toe/internal/api/controller"
	"ctchen222/Solo-Tic-Tac-Toe/internal/api/service"
	"ctchen222/Solo-Tic-Tac-Toe/internal/bot"
	"ctchen222/Solo-Tic-Tac-Toe/internal/config"
	"ctchen222/Solo-Tic-Tac-Toe/internal/db"
	"ctchen222/Solo-Tic-Tac-Toe/internal/events"
	"ctchen222/Solo-Tic-Tac-Toe/internal/hub"
	"ctchen222/Solo-Tic-Tac-Toe/internal/logger"
	"ctchen222/Solo-Tic-Tac-Toe/internal/server"
	"ctchen222/Solo-Tic-Tac-Toe/internal/session"
	"ctchen222/Solo-Tic-Tac-Toe/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file; environment variables override it")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage())
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry must be installed before logger.Init.
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		StdoutTraces:   cfg.Telemetry.StdoutTraces,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	publisher, closePublisher := newPublisher(ctx, cfg.Redis.ConnString)
	defer func() {
		if err := closePublisher(); err != nil {
			slog.Error("Error closing event publisher", "error", err)
		}
	}()

	difficulty, err := bot.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		return err
	}

	h := hub.NewHub(bot.NewMoveCalculator(nil), publisher)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go h.Run(hubCtx)

	configController := controller.NewConfigController(service.NewConfigService(cfg.APIKey), h)
	srv := server.NewServer(h, configController, server.Options{
		StaticDir:         cfg.StaticDir,
		DefaultDifficulty: difficulty,
		DefaultDelay:      session.ParseDelay(cfg.AIDelay),
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: otelhttp.NewHandler(srv.Engine(), "tic-tac-toe"),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "url", fmt.Sprintf("http://localhost%s", cfg.Addr()), "static.dir", cfg.StaticDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		stopHub()
		<-h.Stopped()
		return fmt.Errorf("ListenAndServe: %w", err)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	stopHub()
	select {
	case <-h.Stopped():
	case <-shutdownCtx.Done():
		slog.Warn("Hub did not stop before the shutdown timeout")
	}

	slog.Info("Server exiting")
	return nil
}

// newPublisher connects to Redis when connString is set. Without a
// reachable Redis, events are dropped and the game keeps working. The
// returned func closes the Redis client, if any.
func newPublisher(ctx context.Context, connString string) (events.Publisher, func() error) {
	noop := func() error { return nil }
	if connString == "" {
		slog.Info("REDIS_CONNSTRING not set, game events are disabled")
		return events.NopPublisher{}, noop
	}

	rdb, err := db.NewRedisClient(ctx, connString)
	if err != nil {
		slog.Warn("Redis unavailable, game events are disabled", "error", err)
		return events.NopPublisher{}, noop
	}
	slog.Info("Publishing game events to Redis", "redis.channel", events.EventsChannel)
	publisher := events.NewRedisPublisher(rdb)
	return publisher, publisher.Close
}
