package downloader

import (
	"context"
	"fmt"

	errs "fifascraper/pkg/errors"
	"fifascraper/pkg/fifaindex"
	"fifascraper/pkg/models"
	"fifascraper/pkg/ratelimit"
	"fifascraper/pkg/textutil"
)

// ImageDownloader fetches a remote image payload
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// ImageStorage persists payloads and knows where each asset kind lives
type ImageStorage interface {
	SaveBytes(dest string, data []byte) error
	PhotoPath(id string) string
	LogoPath(club string) string
	FlagPath(name string) string
}

// AssetFetcher downloads one asset to its destination
type AssetFetcher interface {
	Fetch(ctx context.Context, asset models.Asset) error
}

// PlanAssets returns the photo, club logo and flag of p, in download order
func PlanAssets(p *models.Player, store ImageStorage) []models.Asset {
	return []models.Asset{
		{
			Kind:     models.AssetPhoto,
			PlayerID: p.ID,
			URL:      p.Photo,
			Dest:     store.PhotoPath(p.ID),
		},
		{
			Kind:     models.AssetLogo,
			PlayerID: p.ID,
			URL:      p.Club.Logo,
			Dest:     store.LogoPath(textutil.NormalizeOr(p.Club.Name)),
		},
		{
			Kind:     models.AssetFlag,
			PlayerID: p.ID,
			URL:      p.Flag,
			Dest:     store.FlagPath(fifaindex.Basename(p.Flag)),
		},
	}
}

// Fetcher downloads assets through the shared throttle and stores them
type Fetcher struct {
	client   ImageDownloader
	store    ImageStorage
	throttle *ratelimit.Throttle
}

// NewFetcher creates a Fetcher. Every call to Fetch holds the throttle
// for the whole download and write.
func NewFetcher(client ImageDownloader, store ImageStorage, throttle *ratelimit.Throttle) *Fetcher {
	return &Fetcher{client: client, store: store, throttle: throttle}
}

// Fetch downloads asset.URL and writes it to asset.Dest
func (f *Fetcher) Fetch(ctx context.Context, asset models.Asset) error {
	return f.throttle.Do(ctx, func(ctx context.Context) error {
		data, err := f.client.DownloadImage(ctx, asset.URL)
		if err != nil {
			return err
		}
		if err := f.store.SaveBytes(asset.Dest, data); err != nil {
			return errs.Wrap(errs.ErrorTypeStorage, asset.URL, fmt.Errorf("save %s: %w", asset.Kind, err))
		}
		return nil
	})
}
