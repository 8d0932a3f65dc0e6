package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jcdickinson/hyperhelp/internal/cas"
	"github.com/jcdickinson/hyperhelp/internal/config"
	"github.com/jcdickinson/hyperhelp/internal/help"
	"github.com/jcdickinson/hyperhelp/internal/library"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	debug bool
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "hyperhelp",
	Short:         "Load, inspect, and navigate package help indexes",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level := parseLevel(cfg.Log.Level)
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLoader builds an index loader from the configuration, with the index
// cache attached when enabled.
func newLoader() *help.Loader {
	var cache help.IndexCache
	if cfg.Cache.Enabled {
		cache = cas.New(string(cfg.Cache.Dir))
	}
	return help.NewLoader(string(cfg.PackagesPath), cache, slog.Default())
}

// newLibrary returns a package table fed by the configured packages directory.
func newLibrary() *library.Library {
	discovery := library.FSDiscovery{Root: string(cfg.PackagesPath), IndexName: cfg.IndexName}
	return library.New(newLoader(), discovery, cfg.Scan.Concurrency, slog.Default())
}

// getPackage returns a loaded package or exits.
func getPackage(lib *library.Library, name string) *help.Package {
	p, ok := lib.Get(name)
	if !ok {
		log.Fatalf("%v: %s", library.ErrUnknownPackage, name)
	}
	return p
}
