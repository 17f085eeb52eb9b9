// Package scraper runs a complete crawl of the player listing.
//
// A run has four phases that never overlap:
//
//   - crawl: listing pages 1..N are fetched in order and parsed into players.
//     The first failing page aborts the run.
//   - download: every player's photo, club logo and flag are fetched on a
//     worker pool. Failed assets are queued, never fatal. The phase ends when
//     every player has been observed once.
//   - recovery: the failed queue is drained head first. An item that keeps
//     failing is dropped after download.retry_ceiling consecutive attempts.
//   - finalize: one JSON record per player name is written under
//     data/players, followed by data/index.json.
//
// Every network call of every phase goes through a single ratelimit.Throttle,
// so at most one request is in flight and consecutive requests start at least
// rate_limit.interval apart.
//
// Usage:
//
//	s, err := scraper.New(cfg, logger.GetLogger())
//	if err != nil {
//		return err
//	}
//	s.SetProgress(ui.NewProgress())
//	summary, err := s.Run(ctx)
package scraper
