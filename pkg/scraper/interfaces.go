package scraper

import (
	"context"

	"fifascraper/pkg/models"
)

// PageSource fetches one listing page and extracts its players
type PageSource interface {
	FetchPlayers(ctx context.Context, page int, siteRoot string) ([]models.Player, error)
}

// Reporter receives user-facing progress. ui.Progress implements it.
type Reporter interface {
	Page(n, total int)
	PageFailed(n int, err error)
	Downloaded(processed, total int)
	RetriesLeft(n int)
	Fixed(url string)
	Unavailable(url string)
	Saving(done, total int)
	Finished(unavailable int)
}

type nopReporter struct{}

func (nopReporter) Page(int, int)         {}
func (nopReporter) PageFailed(int, error) {}
func (nopReporter) Downloaded(int, int)   {}
func (nopReporter) RetriesLeft(int)       {}
func (nopReporter) Fixed(string)          {}
func (nopReporter) Unavailable(string)    {}
func (nopReporter) Saving(int, int)       {}
func (nopReporter) Finished(int)          {}
