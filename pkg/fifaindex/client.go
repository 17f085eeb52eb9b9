package fifaindex

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errs "fifascraper/pkg/errors"
	"fifascraper/pkg/logger"
)

var tracer = otel.Tracer("fifascraper/fifaindex")

// DefaultUserAgent is sent when the caller does not configure one
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Client fetches listing pages and image payloads from the index site
type Client struct {
	http       *resty.Client
	listingURL string
	logger     logger.Logger
}

// ClientOptions configures a Client
type ClientOptions struct {
	ListingURL string
	UserAgent  string
	// Timeout bounds every request, including image downloads
	Timeout time.Duration
	Logger  logger.Logger
}

// NewClient creates a client for the listing at opts.ListingURL
func NewClient(opts ClientOptions) *Client {
	if opts.ListingURL == "" {
		opts.ListingURL = DefaultListingURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	c := &Client{
		listingURL: opts.ListingURL,
		logger:     opts.Logger.WithField("component", "fifaindex"),
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
			"method":   res.Request.Method,
			"url":      res.Request.URL,
			"status":   res.StatusCode(),
			"duration": res.Time(),
		})
		return nil
	})
	c.http = client

	return c
}

// FetchPage downloads the markup of one listing page
func (c *Client) FetchPage(ctx context.Context, page int) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	pageURL := PageURL(c.listingURL, page)
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.String("url", pageURL),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		Get(pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrorTypeTransport, pageURL, err)
	}
	if res.IsError() {
		err := errs.New(errs.FromStatusCode(res.StatusCode()), res.StatusCode(), pageURL,
			fmt.Sprintf("listing page returned %s", res.Status()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	return res.Body(), nil
}

// DownloadImage fetches one image payload. Any failure, including a
// timeout, is reported as a download error.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadImage", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("url", imageURL))

	if imageURL == "" {
		err := errs.New(errs.ErrorTypeDownload, 0, "", "image url is empty")
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download image")
		return nil, errs.Wrap(errs.ErrorTypeDownload, imageURL, err)
	}
	if res.IsError() {
		err := errs.New(errs.ErrorTypeDownload, res.StatusCode(), imageURL,
			fmt.Sprintf("image request returned %s", res.Status()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	return res.Body(), nil
}
