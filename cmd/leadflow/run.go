package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/leads"
)

var (
	runQuery    string
	runMaxLinks int
	runOutput   string
	runCSV      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once for a search query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

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

		businesses, err := scr.Scrape(ctx, runQuery, runMaxLinks)
		if err != nil {
			return eris.Wrap(err, "scrape failed")
		}

		st := &leads.State{
			SearchQuery: runQuery,
			MaxLinks:    runMaxLinks,
			Businesses:  businesses,
		}

		pipeline.Run(ctx, st)

		zap.L().Info("pipeline finished",
			zap.String("query", runQuery),
			zap.Int("businesses", len(st.Businesses)),
		)

		out := os.Stdout

		if runOutput != "" {
			f, err := os.Create(runOutput)
			if err != nil {
				return eris.Wrapf(err, "create output %s", runOutput)
			}
			defer func() { _ = f.Close() }()

			out = f
		}

		if runCSV {
			return leads.WriteCSV(out, st.Businesses)
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(st.Businesses)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "search query, e.g. \"coffee shops in South Loop, Chicago\"")
	runCmd.Flags().IntVarP(&runMaxLinks, "max-links", "n", 10, "maximum number of places to visit")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write results to a file instead of stdout")
	runCmd.Flags().BoolVar(&runCSV, "csv", false, "write results as CSV instead of JSON")

	_ = runCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(runCmd)
}
