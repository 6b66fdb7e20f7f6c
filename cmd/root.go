package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/config"
	"github.com/localpulse/gridscan/internal/scan"
	"github.com/localpulse/gridscan/internal/serp"
	"github.com/localpulse/gridscan/pkg/serpapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gridscan",
	Short: "Geo-grid local search visibility scanner",
	Long:  "Samples search results across a grid of coordinates around a business location and reports where a target domain ranks at each point, aggregated into a visibility score.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newEngine wires the SERP client stack and batch executor from config.
// The structured client is only constructed when a key is present; without
// one the engine runs on the raw path alone.
func newEngine() *scan.Engine {
	timeout := time.Duration(cfg.Serp.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	var structured serpapi.Client
	if cfg.SerpAPI.Key != "" {
		structured = serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithHTTPClient(httpClient),
		)
	}

	raw := serp.NewRawFetcher(serp.NewHTMLParser(),
		serp.WithRawBaseURL(cfg.Serp.RawBaseURL),
		serp.WithRawHTTPClient(httpClient),
	)

	client := serp.NewClient(structured, raw)
	return scan.NewEngine(client, cfg.Scan.RateLimit, cfg.Scan.Concurrency)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
