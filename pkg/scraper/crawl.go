package scraper

import (
	"context"
	"fmt"

	"fifascraper/pkg/logger"
	"fifascraper/pkg/models"
	"fifascraper/pkg/ratelimit"
	"fifascraper/pkg/retry"
)

// crawl walks pages 1..TotalPages in order and accumulates their players.
// The first page that cannot be fetched or parsed stops the crawl.
func (s *Scraper) crawl(ctx context.Context, st *state) error {
	total := s.cfg.Source.TotalPages
	siteRoot := s.cfg.Source.SiteRoot
	fetch := ratelimit.Wrap(s.throttle, func(ctx context.Context, page int) ([]models.Player, error) {
		return s.source.FetchPlayers(ctx, page, siteRoot)
	})
	retryCfg := retry.Attempts(s.cfg.Source.PageRetries, s.logger)

	s.logger.InfoWithFields("Starting crawl", map[string]interface{}{
		"pages":    total,
		"listing":  s.cfg.Source.ListingURL,
		"interval": s.throttle.Interval(),
	})

	for n := 1; n <= total; n++ {
		page := n
		players, err := retry.DoWithResult(ctx, func(ctx context.Context) ([]models.Player, error) {
			return fetch(ctx, page)
		}, retryCfg)
		if err != nil {
			return s.pageFailed(page, err)
		}

		st.appendPlayers(players)
		s.progress.Page(page, total)
		logger.LogPageProgress(s.logger, page, total, len(players))
	}

	return nil
}

func (s *Scraper) pageFailed(page int, err error) error {
	s.progress.PageFailed(page, err)
	s.logger.WithError(err).ErrorWithFields("Crawl failed", map[string]interface{}{
		"page": page,
	})
	return fmt.Errorf("crawl page %d: %w", page, err)
}
