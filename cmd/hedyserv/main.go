package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/webserv/config"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
	"github.com/hedyserv/hedyserv/internal/webserv/logsink"
	"github.com/hedyserv/hedyserv/internal/webserv/server"
	"github.com/hedyserv/hedyserv/internal/webserv/transpiler"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

type cmdoptions struct {
	configFile string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	cfg := config.Config()

	store := content.NewStore(cfg.Content.LevelsPath, cfg.Content.TextsPath)

	tp := transpiler.NewHTTPTranspiler(cfg.Transpiler.URL, cfg.Transpiler.GetTimeoutOrDefault())

	var sink logsink.Sink = logsink.NopSink{}
	if cfg.LogSink.Enabled {
		sink = logsink.NewHTTPSink(cfg.LogSink.URL, cfg.LogSink.APIKey)
	}

	s, err := server.CreateNewServer(cfg, store, tp, sink)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	s.MountHandlers()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("port", cfg.ServerPort).Msg("server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	slog.Info().Msg("server stopped")
	return nil
}

func parseFlags() cmdoptions {
	opt := cmdoptions{}
	flag.StringVar(&opt.configFile, "config", config.DefaultConfigFile, "path to the configuration file")
	flag.Parse()
	return opt
}
