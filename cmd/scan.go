package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover and load every help index below the packages directory",
	Run:   runScan,
}

func runScan(cmd *cobra.Command, args []string) {
	lib := newLibrary()
	if err := lib.Scan(context.Background()); err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	names := lib.Names()
	if len(names) == 0 {
		fmt.Println("no help packages found")
		return
	}
	for _, name := range names {
		p, _ := lib.Get(name)
		fmt.Printf("  %s: %s [%d topics]\n", name, p.Description, len(p.Topics))
	}
}

var reloadCmd = &cobra.Command{
	Use:   "reload <package>",
	Short: "Load a package's help index again",
	Args:  cobra.ExactArgs(1),
	Run:   runReload,
}

func runReload(cmd *cobra.Command, args []string) {
	p, err := newLibrary().Reload(args[0])
	if err != nil {
		log.Fatalf("reload failed: %v", err)
	}
	fmt.Printf("reloaded %s: %d topics\n", p.Package, len(p.Topics))
}
