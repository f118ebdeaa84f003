package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scalskit/scals"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scals version %s\n", scals.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
