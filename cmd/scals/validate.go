package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scalskit/scals/pkg/document"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a document for consistency",
	Long:  `Decodes the document and reports every structural issue: missing fields, unknown references, invalid enums, and exclusive-field conflicts.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			var issues document.Issues
			if errors.As(err, &issues) {
				for _, issue := range issues {
					fmt.Printf("  %s: [%s] %s\n", issue.Path, issue.Code, issue.Message)
				}
				fmt.Printf("%d issue(s) found\n", len(issues))
			} else {
				fmt.Printf("Validation failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Println("Document is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	_, err := loadDocument(path)
	return err
}
