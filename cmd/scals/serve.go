package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/scalskit/scals"
	"github.com/scalskit/scals/internal/logging"
	"github.com/scalskit/scals/internal/presentation/tui"
	"github.com/scalskit/scals/internal/preview"
	"github.com/scalskit/scals/pkg/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve a document over HTTP for live preview",
	Long:  `Starts a development server exposing the resolved tree, state reads and writes, action invocation, and a server-sent-events stream of incremental updates.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if err := runServe(args[0], serveAddr, verbose); err != nil {
			fmt.Printf("Serve failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8420", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(path, addr string, verbose bool) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	srv := preview.NewServer(preview.WithLogger(logger))
	eng, err := scals.New(doc,
		scals.WithLogger(logger),
		// The preview /metrics endpoint serves the default registry.
		scals.WithMetrics(observability.New(prometheus.DefaultRegisterer)),
		scals.WithUpdateHandler(srv.UpdateHandler),
	)
	if err != nil {
		return err
	}
	defer eng.Close()
	srv.AttachEngine(eng)

	tui.PrintBanner()
	fmt.Printf("Serving %s on http://localhost%s\n", path, addr)
	logger.Info("preview server starting", "addr", addr, "document", path)
	return http.ListenAndServe(addr, srv.Handler())
}
