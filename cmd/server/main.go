package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alienxp03/boardroom/internal/config"
	"github.com/alienxp03/boardroom/internal/engine"
	"github.com/alienxp03/boardroom/internal/storage"
	"github.com/alienxp03/boardroom/web/handlers"
)

func main() {
	port := flag.Int("port", 8183, "Server port")
	cfgPath := flag.String("config", "", "Config file path (default: ~/.boardroom/config.yaml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if *debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.LoadFrom(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if !flagPassed("port") && cfg.Server.Port != 0 {
		*port = cfg.Server.Port
	}

	registry, err := cfg.CreateRegistry()
	if err != nil {
		slog.Error("Failed to initialize provider registry", "error", err)
		os.Exit(1)
	}

	store := storage.NewMemoryStorage()
	defer store.Close()

	eng := engine.New(store, registry, cfg.EngineOptions())
	h := handlers.New(eng, registry)

	addr := fmt.Sprintf(":%d", *port)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("Shutting down...")
		server.Close()
	}()

	slog.Info("Starting boardroom server", "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}
