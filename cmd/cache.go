package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/hyperhelp/internal/cas"
	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove cached help indexes",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	store := cas.New(string(cfg.Cache.Dir))
	if err := store.Clear(); err != nil {
		slog.Error("failed to clear cache", "error", err)
		os.Exit(1)
	}
	fmt.Printf("index cache cleared (%s)\n", store.Dir())
}
