package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/jcdickinson/hyperhelp/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve package help over HTTP",
	Example: `  hyperhelp serve
  hyperhelp serve --addr :8080
  curl localhost:8080/api/packages/HyperHelp/topics/index.txt`,
	Run: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config serve.addr)")
}

func runServe(cmd *cobra.Command, args []string) {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	lib := newLibrary()
	if err := lib.Scan(context.Background()); err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(lib, slog.Default()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving help", "addr", addr, "packages", len(lib.Names()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
