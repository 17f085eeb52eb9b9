package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fifascraper/internal/downloader"
	"fifascraper/pkg/config"
	"fifascraper/pkg/fifaindex"
	"fifascraper/pkg/logger"
	"fifascraper/pkg/ratelimit"
	"fifascraper/pkg/storage"
)

// ErrDownloadsRouted is returned when the download phase is completed twice
// for the same run
var ErrDownloadsRouted = errors.New("download phase already completed")

// Summary describes a finished run
type Summary struct {
	RunID         string
	Pages         int
	Players       int
	Saved         int
	Indexed       int
	Skipped       int
	WriteFailures int
	Fixed         int
	Unavailable   int
	Duration      time.Duration
}

// Scraper crawls the listing, downloads every player's images and writes
// the player records and index
type Scraper struct {
	cfg      *config.Config
	source   PageSource
	images   downloader.ImageDownloader
	throttle *ratelimit.Throttle
	logger   logger.Logger
	progress Reporter
	runID    string
}

// New creates a Scraper talking to the configured listing
func New(cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	runID := uuid.NewString()
	log = log.WithFields(map[string]interface{}{
		"component": "scraper",
		"run_id":    runID,
	})

	client := fifaindex.NewClient(fifaindex.ClientOptions{
		ListingURL: cfg.Source.ListingURL,
		UserAgent:  cfg.Source.UserAgent,
		Timeout:    cfg.Download.Timeout,
		Logger:     log,
	})

	return &Scraper{
		cfg:      cfg,
		source:   client,
		images:   client,
		throttle: ratelimit.NewThrottle(cfg.RateLimit.Interval),
		logger:   log,
		progress: nopReporter{},
		runID:    runID,
	}, nil
}

// SetProgress installs the progress reporter. A nil reporter silences
// progress output.
func (s *Scraper) SetProgress(r Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	s.progress = r
}

// RunID identifies this scraper's runs in the logs
func (s *Scraper) RunID() string {
	return s.runID
}

// Run performs one complete crawl. A page failure aborts the run before any
// image is downloaded. Image failures never abort it.
func (s *Scraper) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	store, err := storage.NewManager(s.cfg.Output.BaseDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	st := newState()

	if err := s.crawl(ctx, st); err != nil {
		return nil, err
	}
	logger.LogPhase(s.logger, "crawl", start)

	fetcher := downloader.NewFetcher(s.images, store, s.throttle)

	phaseStart := time.Now()
	if err := s.download(ctx, st, fetcher, store); err != nil {
		return nil, err
	}
	logger.LogPhase(s.logger, "download", phaseStart)

	if st.queueLen() > 0 {
		phaseStart = time.Now()
		if err := s.retryFailed(ctx, st, fetcher); err != nil {
			return nil, fmt.Errorf("retrying failed downloads: %w", err)
		}
		logger.LogPhase(s.logger, "recovery", phaseStart)
	}

	phaseStart = time.Now()
	res, err := s.finalize(st, store)
	if err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	logger.LogPhase(s.logger, "finalize", phaseStart)

	pages, fixed, unavailable := st.counters()
	s.progress.Finished(unavailable)

	summary := &Summary{
		RunID:         s.runID,
		Pages:         pages,
		Players:       st.playerCount(),
		Saved:         res.Saved,
		Indexed:       res.Indexed,
		Skipped:       res.Skipped,
		WriteFailures: res.WriteFailures,
		Fixed:         fixed,
		Unavailable:   unavailable,
		Duration:      time.Since(start),
	}

	s.logger.InfoWithFields("Run complete", map[string]interface{}{
		"pages":       summary.Pages,
		"players":     summary.Players,
		"saved":       summary.Saved,
		"fixed":       summary.Fixed,
		"unavailable": summary.Unavailable,
		"duration":    summary.Duration,
	})
	return summary, nil
}

// download fetches the images of every crawled player on the worker pool
// and returns once each player has been observed exactly once. Failed
// assets end up in the state's queue.
func (s *Scraper) download(ctx context.Context, st *state, fetcher downloader.AssetFetcher, store downloader.ImageStorage) error {
	players := st.snapshot()
	tr := newTracker(len(players), s.progress.Downloaded)

	pool := downloader.NewWorkerPool(ctx, s.cfg.Download.Workers, fetcher, store, s.logger)
	pool.Start()

	go func() {
		defer pool.Stop()
		for i, p := range players {
			if err := pool.Submit(downloader.Job{Index: i, Player: p}); err != nil {
				s.logger.WithError(err).Warn("Stopped submitting download jobs")
				return
			}
		}
	}()

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for result := range pool.Results() {
			st.enqueue(result.Failed...)
			tr.Observe()
		}
	}()

	select {
	case <-tr.Done():
	case <-ctx.Done():
		<-consumed
		return ctx.Err()
	}
	<-consumed

	if !st.downloadsDone.CompareAndSwap(false, true) {
		return ErrDownloadsRouted
	}

	processed, total := tr.counts()
	s.logger.InfoWithFields("Downloads finished", map[string]interface{}{
		"processed": processed,
		"total":     total,
		"failed":    st.queueLen(),
	})
	return nil
}
