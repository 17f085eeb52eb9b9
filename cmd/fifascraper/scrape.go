package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"fifascraper/pkg/config"
	"fifascraper/pkg/logger"
	"fifascraper/pkg/scraper"
	"fifascraper/pkg/ui"
)

var (
	// Scrape command flags
	totalPages      int
	interval        time.Duration
	outputDir       string
	downloadTimeout time.Duration
	retryCeiling    int
	workers         int
	pageRetries     int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl the player listing and save records and images",
	Long: `Crawl listing pages 1..N, download the images of every player and write
the player records and index.

A page that cannot be fetched stops the run before any image is downloaded.
Failed image downloads are retried after the first pass; an image that keeps
failing is given up after --retry-ceiling consecutive attempts and the record
falls back to the placeholder photo.`,
	Example: `  # Crawl the default five pages into the current directory
  fifascraper scrape

  # Crawl 604 pages into ./out, one request per second
  fifascraper scrape --pages 604 --interval 1s --output ./out

  # Retry a failing listing page twice before giving up
  fifascraper scrape --page-retries 2`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVarP(&totalPages, "pages", "n", 0, "number of listing pages to crawl (default 5)")
	scrapeCmd.Flags().DurationVar(&interval, "interval", -1, "minimum spacing between two requests (default 600ms)")
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	scrapeCmd.Flags().DurationVar(&downloadTimeout, "timeout", 0, "per-request timeout (default 15s)")
	scrapeCmd.Flags().IntVar(&retryCeiling, "retry-ceiling", 0, "consecutive failures before an image is given up (default 10)")
	scrapeCmd.Flags().IntVar(&workers, "workers", 0, "download workers (default 1)")
	scrapeCmd.Flags().IntVar(&pageRetries, "page-retries", -1, "extra attempts for a failing listing page (default 0)")
}

// scrapeFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func scrapeFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("pages") {
		flags["total-pages"] = totalPages
	}
	if cmd.Flags().Changed("interval") {
		flags["interval"] = interval
	}
	if cmd.Flags().Changed("output") {
		flags["output"] = outputDir
	}
	if cmd.Flags().Changed("timeout") {
		flags["download-timeout"] = downloadTimeout
	}
	if cmd.Flags().Changed("retry-ceiling") {
		flags["retry-ceiling"] = retryCeiling
	}
	if cmd.Flags().Changed("workers") {
		flags["workers"] = workers
	}
	if cmd.Flags().Changed("page-retries") {
		flags["page-retries"] = pageRetries
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, scrapeFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithField("version", version)
	log.InfoWithFields("fifascraper starting", map[string]interface{}{
		"pages":    cfg.Source.TotalPages,
		"interval": cfg.RateLimit.Interval,
		"output":   cfg.Output.BaseDirectory,
	})

	s, err := scraper.New(cfg, log)
	if err != nil {
		return err
	}
	s.SetProgress(ui.NewProgress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintInfo("Listing", cfg.Source.ListingURL)
	ui.PrintInfo("Output", cfg.Output.BaseDirectory)

	summary, err := s.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Run failed")
		return err
	}

	if !ui.IsQuietMode() {
		renderSummary(cmd.OutOrStdout(), summary)
	}
	return nil
}

func renderSummary(w io.Writer, summary *scraper.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Run " + summary.RunID)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Pages", summary.Pages},
		{"Players", summary.Players},
		{"Records saved", summary.Saved},
		{"Indexed names", summary.Indexed},
		{"Skipped (no name)", summary.Skipped},
		{"Write failures", summary.WriteFailures},
		{"Fixed on retry", summary.Fixed},
		{"Unavailable", summary.Unavailable},
	})
	t.AppendFooter(table.Row{"Duration", ui.FormatDuration(summary.Duration)})
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}
