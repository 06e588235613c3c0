package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/internal/config"
	"github.com/turtacn/textselect/internal/engine"
	httpapi "github.com/turtacn/textselect/internal/interfaces/http"
	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/internal/monitoring/metrics"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		modelPath  string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long:  "Loads the model image and serves the inference API.  Configuration comes\nfrom a YAML file and TEXTSELECT_* environment variables; --model and --port\noverride both.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath, modelPath, port)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVar(&modelPath, "model", "", "model image path (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

func loadServeConfig(configPath, modelPath string, port int) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else if modelPath != "" {
		// Flag-only invocation: defaults plus overrides, no file or env needed.
		cfg = &config.Config{}
		cfg.Model.Path = modelPath
		config.ApplyDefaults(cfg)
		err = cfg.Validate()
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	return cfg, cfg.Validate()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		return err
	}
	log = log.Named("textselect")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engineOpts := []engine.Option{
		engine.WithLogger(log),
		engine.WithMetrics(metrics.New(registry)),
		engine.WithCacheSize(cfg.Cache.Size),
	}

	var provider httpapi.ContainerProvider
	if cfg.Model.WatchReload {
		reloading, err := httpapi.NewReloadingProvider(
			cfg.Model.Path, cfg.Model.ReloadDebounce, log, engineOpts...)
		if err != nil {
			return fmt.Errorf("model watcher: %w", err)
		}
		defer reloading.Close()
		provider = reloading
	} else {
		ct := engine.NewFromPath(cfg.Model.Path, engineOpts...)
		defer ct.Close()
		provider = httpapi.StaticProvider{Container: ct}
	}

	if !provider.Current().IsInitialized() {
		log.Warn("serving without a usable model; health reports degraded until a valid image arrives",
			logging.String("path", cfg.Model.Path))
	}

	server := httpapi.NewServer(cfg.Server, httpapi.RouterDeps{
		Provider: provider,
		Logger:   log,
		Gatherer: registry,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
