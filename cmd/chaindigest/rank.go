package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deusflow/chaindigest/internal/app"
	"github.com/deusflow/chaindigest/internal/metrics"
)

var flagRankLimit int

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Fetch the feeds and print ranked headlines",
	Long: `Rank fetches the configured RSS feeds, clusters the headlines into
stories and prints them by coverage. No model is called and nothing is posted.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().IntVar(&flagRankLimit, "limit", 0, "Number of stories to print (default NEWS_TOP_N)")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	fetcher, enricher, err := newsSource(cfg, &http.Client{Timeout: cfg.RequestTimeout}, log)
	if err != nil {
		return err
	}

	svc := app.New(app.Deps{News: fetcher, Enricher: enricher, Metrics: metrics.New(), Log: log}, app.Options{
		NewsWindow:     cfg.NewsWindow,
		NewsFetchLimit: cfg.NewsFetchLimit,
		NewsTopN:       cfg.NewsTopN,
	})
	ranked := svc.Headlines(cmd.Context())

	limit := flagRankLimit
	if limit <= 0 {
		limit = cfg.NewsTopN
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := cmd.OutOrStdout()
	for i, h := range ranked {
		fmt.Fprintf(out, "%2d. [%d] %s\n", i+1, h.CoverageCount, h.Title)
		fmt.Fprintf(out, "    %s | %s\n", strings.Join(h.RelatedSources, ", "), h.URL)
	}
	if len(ranked) == 0 {
		fmt.Fprintln(out, "No recent articles found.")
	}
	return nil
}
