package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/agent"
	"github.com/leadflow/leadflow/config"
	"github.com/leadflow/leadflow/emails"
	"github.com/leadflow/leadflow/enrich"
	"github.com/leadflow/leadflow/fetch"
	"github.com/leadflow/leadflow/llm"
	"github.com/leadflow/leadflow/retry"
	"github.com/leadflow/leadflow/scraper"
)

var (
	cfg       config.Config
	syncLogs  = func() {}
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "leadflow",
	Short: "Local business lead discovery and enrichment",
	Long: `leadflow scrapes local businesses from Google Maps, discovers a
contact email on each business website, summarizes the business with an
LLM and drafts a personalized outreach email.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if debugFlag {
			cfg.Debug = true
			cfg.LogLevel = "debug"
		}

		syncLogs, err = config.InitLogger(cfg)

		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		syncLogs()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// buildPipeline assembles the enrichment pipeline from config. The
// returned closer releases the page fetcher.
func buildPipeline() (*enrich.Pipeline, io.Closer, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, nil, eris.New("missing Anthropic API key (set LEADFLOW_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY)")
	}

	fetcher, closer := buildFetcher()

	completer := llm.NewAnthropic(llm.AnthropicConfig{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.Model,
	})

	fallback := agent.New(completer, fetcher)
	finder := emails.NewFinder(fetcher, fallback)

	return enrich.NewPipeline(fetcher, finder, completer), closer, nil
}

// buildFetcher prefers the rendered-page fetcher and falls back to
// plain HTTP when the browser cannot start.
func buildFetcher() (fetch.Fetcher, io.Closer) {
	if cfg.UseBrowser {
		bcfg := fetch.DefaultBrowserConfig()
		bcfg.Headless = cfg.Headless

		if cfg.FetchTimeout > 0 {
			bcfg.Timeout = cfg.FetchTimeout
		}

		browser, err := fetch.NewBrowser(bcfg)
		if err == nil {
			return browser, browser
		}

		zap.L().Warn("browser unavailable, falling back to http fetcher", zap.Error(err))
	}

	return fetch.NewHTTP(retry.None()), nopCloser{}
}

func buildScraper() (*scraper.GoogleMaps, error) {
	scfg := scraper.DefaultConfig()
	scfg.Headless = cfg.Headless

	return scraper.NewGoogleMaps(scfg)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
