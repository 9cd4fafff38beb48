// Command riscore-server serves the research metadata read API: the
// organigram tree, funding and project records, and the source and merged
// OpenAPI documents.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	schemadocs "riscore/docs/schema/openapi"
	"riscore/internal/adapters/httpapi"
	"riscore/internal/config"
	"riscore/internal/core"
	"riscore/internal/docsource"
	"riscore/internal/storage"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stderr))
}

func cli(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("riscore-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath string
	fs.StringVar(&configPath, "config", "", "path to config.yaml (optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := run(configPath); err != nil {
		fmt.Fprintf(stderr, "riscore-server: %v\n", err)
		return 1
	}
	return 0
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.SQLitePath, cfg.Storage.PostgresDSN())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := storage.LoadSeedFile(ctx, store, cfg.Storage.SeedFile); err != nil {
		return err
	}

	loader, err := openDocs(ctx, cfg.Docs)
	if err != nil {
		return fmt.Errorf("open document source: %w", err)
	}
	catalog, err := docsource.NewCatalog(ctx, loader)
	if err != nil {
		return fmt.Errorf("load document catalog: %w", err)
	}
	if cfg.Docs.Driver == "fs" && cfg.Docs.Watch {
		fsLoader, ok := loader.(*docsource.FilesystemLoader)
		if ok {
			go func() {
				err := docsource.WatchFilesystem(ctx, fsLoader, func() {
					if err := catalog.Reload(ctx); err != nil {
						logger.Warn("document reload failed", zap.Error(err))
					} else {
						logger.Info("document catalog reloaded")
					}
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("document watch stopped", zap.Error(err))
				}
			}()
		}
	}

	metrics, err := core.NewPrometheusMetricsRecorder(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	service := core.NewService(store, core.WithMetricsRecorder(metrics))

	opts := []httpapi.HandlerOption{httpapi.WithLogger(logger)}
	if cfg.Auth.Mode == "bearer" {
		opts = append(opts, httpapi.WithTokenVerifier(httpapi.StaticTokenVerifier{Token: cfg.Auth.Token()}))
	}
	api := httpapi.NewHandler(service, catalog, cfg.Server.PublicURL, opts...)

	mux := http.NewServeMux()
	mux.Handle("/ris-synergy/", httpapi.WithRequestLogging(logger, api))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.Int("port", cfg.Server.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}

// openDocs selects the document loader per configuration. The embedded
// driver serves the compiled-in documents through the memory loader.
func openDocs(ctx context.Context, cfg config.DocsConfig) (docsource.Loader, error) {
	switch cfg.Driver {
	case "", "embedded":
		return docsource.NewMemory(schemadocs.Documents()), nil
	case "fs":
		return docsource.NewFilesystem(cfg.Root)
	case "s3":
		return docsource.OpenS3FromEnv(ctx)
	case "memory":
		return docsource.NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown docs driver %s", cfg.Driver)
	}
}
