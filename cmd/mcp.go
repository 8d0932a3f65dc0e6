package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/hyperhelp/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve package help over MCP on stdio",
	Run:   runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	lib := newLibrary()
	if err := lib.Scan(context.Background()); err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	server := mcp.NewServer(lib, version)

	errCh := make(chan error)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Printf("received signal: %s", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
