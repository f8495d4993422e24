package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"draftsmith/internal/logging"
	"draftsmith/internal/orchestrator"
	"draftsmith/internal/registry"
	"draftsmith/internal/server"
)

const shutdownGrace = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and JSON API",
	Long: `Starts the HTTP front end:
  GET  /              form
  POST /generate      form post, HTML result
  POST /api/generate  {"task","fields"} -> {"task","topic","content"}
  GET  /healthz       liveness`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

// buildOrchestrator validates config and wires every family's engine.
func buildOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := registry.FromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for family, name := range reg.Names() {
		logging.Get(logging.CategoryBoot).Info("family %s -> %s", family, name)
	}
	return orchestrator.New(reg), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	orch, err := buildOrchestrator(ctx)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, orch)
	if err != nil {
		return err
	}
	hs := srv.HTTPServer()
	log := logging.Get(logging.CategoryBoot)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
