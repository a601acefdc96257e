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
	"time"

	"github.com/joho/godotenv"
	"github.com/vibin/crop-advisor/config"
	httpHandler "github.com/vibin/crop-advisor/internal/adapters/primary/http"
	"github.com/vibin/crop-advisor/internal/adapters/secondary/llm"
	"github.com/vibin/crop-advisor/internal/adapters/secondary/storage"
	"github.com/vibin/crop-advisor/internal/core/services"
	"github.com/vibin/crop-advisor/internal/logger"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debugMode {
		logLevel = slog.LevelDebug
	}
	log := logger.New(logLevel, os.Stdout)

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := loadConfig(*configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Error("Failed to write configuration", "path", *writeConfig, "error", err)
			os.Exit(1)
		}
		log.Info("Configuration written", "path", *writeConfig)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	model, err := llm.New(context.Background(), &cfg.Model, log)
	if err != nil {
		log.Error("Failed to initialize model client", "provider", cfg.Model.Provider, "error", err)
		os.Exit(1)
	}

	uploads, err := storage.NewDiskUploadStore(cfg.Server.UploadDir, log)
	if err != nil {
		log.Error("Failed to initialize upload store", "dir", cfg.Server.UploadDir, "error", err)
		os.Exit(1)
	}

	advisor := services.NewAdvisorService(model, uploads, cfg, log)
	handler := httpHandler.NewHandler(advisor, cfg, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server running for Crop & Chat", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

// loadConfig reads the config file when one is given or present at the
// default location, then applies environment overrides.
func loadConfig(path string, log logger.Logger) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	switch {
	case err == nil:
		log.Info("Loaded configuration", "path", path)
	case !explicit && errors.Is(err, os.ErrNotExist):
		log.Info("Using default configuration")
		cfg = config.DefaultConfig()
	default:
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
