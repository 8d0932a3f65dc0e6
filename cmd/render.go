package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jcdickinson/hyperhelp/internal/diag"
	"github.com/jcdickinson/hyperhelp/internal/document"
	"github.com/jcdickinson/hyperhelp/internal/help"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <help-file>",
	Short: "Strip hidden anchor markup from a help file and print the result",
	Args:  cobra.ExactArgs(1),
	Run:   runRender,
}

var renderJSON bool

func init() {
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "print the document with anchors and links as JSON")
}

func runRender(cmd *cobra.Command, args []string) {
	doc := openDocument(args[0])
	if renderJSON {
		out, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Print(doc.Text)
}

var navCmd = &cobra.Command{
	Use:   "nav <help-file> [position]",
	Short: "List the anchors of a help file, or find the one next to a position",
	Example: `  hyperhelp nav help/index.txt
  hyperhelp nav help/index.txt 120
  hyperhelp nav --backward help/index.txt 120`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runNav,
}

var navBackward bool

func init() {
	navCmd.Flags().BoolVar(&navBackward, "backward", false, "search before the position instead of after it")
}

func runNav(cmd *cobra.Command, args []string) {
	doc := openDocument(args[0])
	if len(args) == 1 {
		for _, a := range doc.Nav {
			printAnchor(a)
		}
		return
	}

	pos := parsePosition(args[1])
	dir := document.Forward
	if navBackward {
		dir = document.Backward
	}
	a, ok := document.FindAdjacentAnchor(doc.Nav, pos, dir)
	if !ok {
		fmt.Println("no anchors")
		return
	}
	printAnchor(a)
}

var followCmd = &cobra.Command{
	Use:   "follow <help-file> <position>",
	Short: "Resolve the link at a position",
	Long: `Resolve the link under a position to an anchor in the same file. When
no anchor matches, the topic is looked up in the file's package.`,
	Args: cobra.ExactArgs(2),
	Run:  runFollow,
}

func runFollow(cmd *cobra.Command, args []string) {
	doc := openDocument(args[0])
	a, label, err := doc.FollowLink(parsePosition(args[1]))
	switch {
	case err == nil:
		printAnchor(a)
		return
	case !errors.Is(err, document.ErrTopicNotFound) || doc.Package == "":
		log.Fatalf("%v", err)
	}

	t, lookupErr := newLibrary().Lookup(doc.Package, label)
	if lookupErr != nil {
		slog.Warn(fmt.Sprintf("document: %v", lookupErr))
		log.Fatalf("%v", err)
	}
	fmt.Printf("%s\t%s\t%s\n", t.File, displayKey(t.Key), t.Caption)
}

// openDocument reads and post-processes a help file. Files below the
// packages directory are attributed to their package.
func openDocument(file string) *document.Document {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("reading help file: %v", err)
	}

	var pkg string
	if abs, err := filepath.Abs(file); err == nil {
		if resource, _, err := newLoader().Resolve(abs); err == nil {
			pkg = help.PackageName(resource)
		}
	}

	doc, warnings := document.Parse(pkg, filepath.Base(file), string(data))
	diag.Emit(slog.Default(), warnings, "file", file)
	return doc
}

func parsePosition(s string) int {
	pos, err := strconv.Atoi(s)
	if err != nil || pos < 0 {
		log.Fatalf("invalid position %q", s)
	}
	return pos
}

func printAnchor(a document.NavAnchor) {
	fmt.Printf("%d\t%d\t%s\n", a.Span.Start, a.Span.End, displayKey(a.Key))
}
