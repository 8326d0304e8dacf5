package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arquent-run/arquent/pkg/config"
	"github.com/arquent-run/arquent/pkg/connector"
	"github.com/arquent-run/arquent/pkg/executor"
	"github.com/arquent-run/arquent/pkg/observability"
	"github.com/arquent-run/arquent/pkg/proofstore"
)

func runServeCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	profilePath := fs.String("profile", "", "path to a YAML config profile overlay")
	sqlitePath := fs.String("sqlite", "", "path to a SQLite database file (overrides ARQUENT_DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	if *profilePath != "" {
		profile, err := config.LoadProfile(*profilePath)
		if err != nil {
			fmt.Fprintf(stderr, "serve: loading profile: %v\n", err)
			return 1
		}
		config.ApplyProfile(cfg, profile, explicitlySetFromEnv())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obsConfig := observability.DefaultConfig()
	obsConfig.OTLPEndpoint = cfg.OTLPEndpoint
	obsConfig.Enabled = cfg.TelemetryEnabled
	provider, err := observability.New(ctx, obsConfig)
	if err != nil {
		fmt.Fprintf(stderr, "serve: observability init: %v\n", err)
		return 1
	}
	defer provider.Shutdown(context.Background())

	st, closeStore, err := openStore(cfg, *sqlitePath)
	if err != nil {
		fmt.Fprintf(stderr, "serve: opening store: %v\n", err)
		return 1
	}
	defer closeStore()

	proofs, closeProofs, err := openProofStore(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "serve: opening proof store: %v\n", err)
		return 1
	}
	defer closeProofs()

	registry := connector.NewRegistry()

	exec := executor.New()
	exec.Observer = provider

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/runs", newRunsHandler(st, proofs, exec))
	mux.Handle("/connectors", newConnectorsHandler(registry))

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.ListenAndServe()
	}()
	fmt.Fprintf(stdout, "arquent serving on %s (proof backend: %s)\n", cfg.ListenAddr, cfg.ProofStoreBackend)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(stderr, "serve: http server error: %v\n", err)
			return 1
		}
	case sig := <-sigChan:
		fmt.Fprintf(stdout, "serve: received %s, shutting down\n", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "serve: shutdown error: %v\n", err)
			return 1
		}
	}
	return 0
}

// openProofStore selects the in-process or Redis-backed proof store per
// config.ProofStoreBackend. The in-memory store is single-process only;
// Redis lets a host share proof submission across processes.
func openProofStore(cfg *config.Config) (proofstore.Store, func(), error) {
	if cfg.ProofStoreBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return proofstore.NewRedisStore(client), func() { client.Close() }, nil
	}
	return proofstore.NewInMemoryStore(), func() {}, nil
}

// explicitlySetFromEnv reports which ARQUENT_* env vars were set, so
// ApplyProfile knows which Config fields a profile file may still override.
func explicitlySetFromEnv() map[string]bool {
	set := map[string]bool{}
	for _, envVar := range []string{
		"ARQUENT_PROOF_STORE_BACKEND",
		"ARQUENT_REDIS_ADDR",
		"ARQUENT_OTLP_ENDPOINT",
	} {
		if os.Getenv(envVar) != "" {
			set[envVar] = true
		}
	}
	return set
}
