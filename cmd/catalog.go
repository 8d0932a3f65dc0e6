package cmd

import (
	"fmt"
	"log"

	"github.com/jcdickinson/hyperhelp/internal/catalog"
	"github.com/jcdickinson/hyperhelp/internal/config"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export every loaded package to a DuckDB catalog",
	Long: `Scan the packages directory and write packages, topics, table of contents
and externals to DuckDB tables. Each package's rows are replaced as a whole.`,
	Example: `  hyperhelp catalog
  hyperhelp catalog --db help.duckdb
  duckdb ~/.cache/hyperhelp/catalog.duckdb "SELECT package, count(*) FROM topics GROUP BY 1"`,
	Run: runCatalog,
}

var catalogPath string

func init() {
	catalogCmd.Flags().StringVar(&catalogPath, "db", "", "catalog path (default: cache directory)")
}

func runCatalog(cmd *cobra.Command, args []string) {
	path := catalogPath
	if path == "" {
		path = config.CatalogPath()
	}

	c, err := catalog.Open(path)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer c.Close()

	n, err := c.SaveAll(newLibrary().Packages())
	if err != nil {
		log.Fatalf("failed to export packages: %v", err)
	}
	fmt.Printf("exported %d packages to %s\n", n, path)
}
