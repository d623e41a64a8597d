package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow/store"
	"github.com/leadflow/leadflow/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scr, err := buildScraper()
		if err != nil {
			return err
		}
		defer func() { _ = scr.Close() }()

		pipeline, closer, err := buildPipeline()
		if err != nil {
			return err
		}
		defer func() { _ = closer.Close() }()

		runs, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = runs.Close() }()

		addr := cfg.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := web.New(scr, pipeline, runs, addr)

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
