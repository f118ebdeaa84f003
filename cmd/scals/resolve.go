package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/scalskit/scals"
	"github.com/scalskit/scals/internal/presentation/tree"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Resolve a document and print the render tree",
	Long:  `Runs a single resolution pass over the document's initial state and prints the resulting render tree as an outline, or as JSON with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runResolve(args[0], resolveJSON); err != nil {
			fmt.Printf("Resolve failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Emit the render tree as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(path string, asJSON bool) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	eng, err := scals.New(doc, scals.WithReactivity(false))
	if err != nil {
		return err
	}
	defer eng.Close()

	for _, rerr := range eng.ResolutionErrors() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", rerr)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eng.Tree())
	}
	return tree.NewPrinter(os.Stdout).Fprint(os.Stdout, eng.Tree())
}
