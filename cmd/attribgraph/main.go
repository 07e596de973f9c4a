package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"attribgraph/config"
	"attribgraph/internal/attribution"
	"attribgraph/internal/logger"
	"attribgraph/internal/modelstore"
	"attribgraph/internal/server"
	"attribgraph/internal/stix"
	"attribgraph/internal/trainer"
	"attribgraph/pkg/models"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("attribgraph.yml"); err == nil {
		return "attribgraph.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "attribgraph.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "attribgraph.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.AttribGraph.Input.BundlesPath == "" {
		cfg.AttribGraph.Input.BundlesPath = "data/bundles"
	}

	if cfg.AttribGraph.Training.PerLabel <= 0 {
		cfg.AttribGraph.Training.PerLabel = trainer.DefaultPerLabel
	}

	if cfg.AttribGraph.Model.Mode == "" {
		cfg.AttribGraph.Model.Mode = "file"
	}
	if cfg.AttribGraph.Model.File.Path == "" {
		cfg.AttribGraph.Model.File.Path = "data/model"
	}

	if cfg.AttribGraph.Server.Listen == "" {
		cfg.AttribGraph.Server.Listen = ":8099"
	}
	if cfg.AttribGraph.Server.ShutdownTimeout <= 0 {
		cfg.AttribGraph.Server.ShutdownTimeout = 5 * time.Second
	}

	if cfg.AttribGraph.Logging.Level == "" {
		cfg.AttribGraph.Logging.Level = "info"
	}
}

func loadRuntime(configArg string) (*config.Config, *logger.Logger) {
	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	appLog, err := logger.New(logger.Config{
		Enabled: cfg.AttribGraph.Logging.Enabled,
		Level:   cfg.AttribGraph.Logging.Level,
		File:    cfg.AttribGraph.Logging.File,
		Console: cfg.AttribGraph.Logging.Console,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLog.Infof("Config loaded from: %s", configPath)
	return cfg, appLog
}

func openStore(cfg *config.Config, appLog *logger.Logger) (modelstore.Store, error) {
	switch cfg.AttribGraph.Model.Mode {
	case "file":
		return modelstore.NewFileStore(modelstore.FileConfig{
			Path: cfg.AttribGraph.Model.File.Path,
		}, appLog)
	case "redis":
		return modelstore.NewRedisStore(modelstore.RedisConfig{
			Addr:      cfg.AttribGraph.Model.Redis.Addr,
			Password:  cfg.AttribGraph.Model.Redis.Password,
			DB:        cfg.AttribGraph.Model.Redis.DB,
			KeyPrefix: cfg.AttribGraph.Model.Redis.KeyPrefix,
		}, appLog)
	default:
		return nil, fmt.Errorf("unknown model store mode: %s", cfg.AttribGraph.Model.Mode)
	}
}

func resolveCallerVersion(cfg *config.Config) (models.Version, error) {
	raw := cfg.AttribGraph.Training.DatabaseVersion
	if raw == "" {
		return models.DefaultVersion, nil
	}
	return models.ParseVersion(raw)
}

func runTrain(args []string) int {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}
	cfg, appLog := loadRuntime(configArg)

	callerVersion, err := resolveCallerVersion(cfg)
	if err != nil {
		appLog.Errorf("Invalid database version in config: %v", err)
		return 2
	}

	bundles, err := stix.LoadBundles(cfg.AttribGraph.Input.BundlesPath)
	if err != nil {
		appLog.Errorf("Failed to load bundles from %s: %v", cfg.AttribGraph.Input.BundlesPath, err)
		return 1
	}
	appLog.Infof("Loaded %d bundles from %s", len(bundles), cfg.AttribGraph.Input.BundlesPath)

	extractor := stix.NewExtractor(appLog)
	profiles := extractor.ExtractProfiles(bundles)

	t := trainer.New(profiles, callerVersion, appLog)
	t.SetPerLabel(cfg.AttribGraph.Training.PerLabel)
	result := t.Retrain()
	if result == nil {
		appLog.Errorf("Training produced no model")
		return 1
	}

	blob, err := result.Model.Marshal()
	if err != nil {
		appLog.Errorf("Failed to serialize model: %v", err)
		return 1
	}

	store, err := openStore(cfg, appLog)
	if err != nil {
		appLog.Errorf("Failed to open model store: %v", err)
		return 1
	}
	defer store.Close()

	if err := store.SaveModel(result.Metadata, blob); err != nil {
		appLog.Errorf("Failed to persist model artifact: %v", err)
		return 1
	}

	fmt.Printf("trained labels=%d f1=%.4f version=%s run_id=%s\n",
		result.Metadata.LabelCount, result.F1Score, result.Version, result.Metadata.RunID)
	return 0
}

func runServe(args []string) int {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}
	cfg, appLog := loadRuntime(configArg)

	store, err := openStore(cfg, appLog)
	if err != nil {
		appLog.Errorf("Failed to open model store: %v", err)
		return 1
	}
	defer store.Close()

	model := attribution.New(store, appLog)
	srv := server.New(server.Config{
		Listen:       cfg.AttribGraph.Server.Listen,
		ReadTimeout:  cfg.AttribGraph.Server.ReadTimeout,
		WriteTimeout: cfg.AttribGraph.Server.WriteTimeout,
	}, model, appLog)

	go func() {
		if err := srv.Run(); err != nil {
			appLog.Errorf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	appLog.Infof("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AttribGraph.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Errorf("Error shutting down server: %v", err)
	}
	appLog.Infof("AttribGraph stopped")
	return 0
}

func runPredict(args []string) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	incident := fs.String("incident", "", "Incident semantic-token string")
	configArg := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, appLog := loadRuntime(*configArg)

	store, err := openStore(cfg, appLog)
	if err != nil {
		appLog.Errorf("Failed to open model store: %v", err)
		return 1
	}
	defer store.Close()

	model := attribution.New(store, appLog)
	result := model.Predict(*incident)

	if result.Ranking == nil {
		fmt.Printf("label=%d db_version=%s\n", result.Sentinel, result.DBVersion)
		return 0
	}
	for i := range result.Ranking.Labels {
		fmt.Printf("%d. %s (%.4f)\n", i+1, result.Ranking.Labels[i], result.Ranking.Probas[i])
	}
	fmt.Printf("db_version=%s\n", result.DBVersion)
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: attribgraph <train|serve|predict> [args]\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "train":
		os.Exit(runTrain(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "predict":
		os.Exit(runPredict(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}
