package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scalskit/scals/pkg/document"
)

var rootCmd = &cobra.Command{
	Use:   "scals",
	Short: "Scals resolves server-driven UI documents into render trees",
	Long:  `Scals turns declarative JSON/YAML UI documents into fully resolved render trees, with reactive state, style inheritance, and actions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadDocument reads and parses a document file, choosing the YAML or
// JSON decoder by extension.
func loadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := document.DecodeYAML(data)
		if err != nil {
			return nil, err
		}
		if issues := document.Validate(doc); len(issues) > 0 {
			return nil, issues
		}
		return doc, nil
	default:
		return document.Parse(data)
	}
}
