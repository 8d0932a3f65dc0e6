package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jcdickinson/hyperhelp/internal/help"
	"github.com/jcdickinson/hyperhelp/internal/markdown"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <locator>",
	Short: "Load one help index and print the assembled package",
	Long: `Load a help index from a resource name ("Packages/<package>/...") or an
absolute path below the packages directory, and print it as JSON.`,
	Example: `  hyperhelp load Packages/HyperHelp/help/hyperhelp.json
  hyperhelp load ~/.config/sublime-text/Packages/HyperHelp/help/hyperhelp.json`,
	Args: cobra.ExactArgs(1),
	Run:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) {
	p, err := newLoader().Load(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	fmt.Println(string(out))
}

var topicsCmd = &cobra.Command{
	Use:   "topics <package> [topic]",
	Short: "List the topics of a package, or show one topic",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runTopics,
}

func runTopics(cmd *cobra.Command, args []string) {
	lib := newLibrary()
	if len(args) == 2 {
		t, err := lib.Lookup(args[0], args[1])
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("%s\t%s\t%s\n", t.File, displayKey(t.Key), t.Caption)
		return
	}

	p := getPackage(lib, args[0])
	for _, key := range p.SortedKeys() {
		t := p.Topics[key]
		fmt.Printf("  %-30s %s (%s)\n", displayKey(key), t.Caption, t.File)
	}
}

// displayKey shows the tabs of a normalized key as spaces.
func displayKey(key string) string {
	return strings.ReplaceAll(key, "\t", " ")
}

var tocCmd = &cobra.Command{
	Use:   "toc <package>",
	Short: "Print the table of contents of a package",
	Example: `  hyperhelp toc HyperHelp
  hyperhelp toc --format html HyperHelp > toc.html`,
	Args: cobra.ExactArgs(1),
	Run:  runTOC,
}

var tocFormat string

func init() {
	tocCmd.Flags().StringVar(&tocFormat, "format", "text", "output format: text, markdown, or html")
}

func runTOC(cmd *cobra.Command, args []string) {
	p := getPackage(newLibrary(), args[0])

	switch tocFormat {
	case "text":
		p.Walk(func(n help.TocNode, depth int) {
			fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), n.Caption, n.File)
		})
	case "markdown", "md":
		fmt.Print(markdown.TOC(p))
	case "html":
		os.Stdout.Write(markdown.HTML(p, markdown.TOC(p)))
	default:
		log.Fatalf("unknown format %q", tocFormat)
	}
}
