package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scalskit/scals/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Generate a Mermaid diagram of a document",
	Long:  `Emits a Mermaid flowchart of the document's component hierarchy, with dotted edges to the named actions each component triggers.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := loadDocument(args[0])
		if err != nil {
			fmt.Printf("Failed to load document: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(doc))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
