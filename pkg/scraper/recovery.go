package scraper

import (
	"context"

	"fifascraper/internal/downloader"
	"fifascraper/pkg/logger"
)

// retryFailed drains the failed-download queue head first. The head is retried
// until it succeeds or has failed ceiling times in a row, then it is
// dropped and counted as unavailable.
func (s *Scraper) retryFailed(ctx context.Context, st *state, fetcher downloader.AssetFetcher) error {
	ceiling := s.cfg.Download.RetryCeiling
	queued := st.queueLen()
	log := s.logger.WithField("component", "recovery")
	log.InfoWithFields("Retrying failed downloads", map[string]interface{}{
		"queued":  queued,
		"ceiling": ceiling,
	})

	var (
		lastSeq     uint64
		consecutive int
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, ok := st.head()
		if !ok {
			break
		}
		s.progress.RetriesLeft(st.queueLen())

		if item.Seq != lastSeq {
			consecutive = 0
		}

		if consecutive >= ceiling {
			st.popHead(item)
			st.markUnavailable()
			s.progress.Unavailable(item.URL)
			log.WarnWithFields("Download unavailable", map[string]interface{}{
				"kind":      string(item.Kind),
				"player_id": item.PlayerID,
				"url":       item.URL,
				"attempts":  consecutive,
			})
			continue
		}

		err := fetcher.Fetch(ctx, item.Asset)
		if err == nil {
			st.popHead(item)
			st.markFixed()
			s.progress.Fixed(item.URL)
			log.DebugWithFields("Download fixed", map[string]interface{}{
				"kind":      string(item.Kind),
				"player_id": item.PlayerID,
			})
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastSeq = item.Seq
		consecutive++
	}

	_, fixed, unavailable := st.counters()
	logger.LogRecovery(log, queued, fixed, unavailable)
	return nil
}
