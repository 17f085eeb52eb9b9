package fifaindex

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	errs "fifascraper/pkg/errors"
	"fifascraper/pkg/models"
)

const (
	rowSelector    = ".table.table-striped.players tbody tr"
	nameSelector   = "td[data-title='Nom'] a"
	clubSelector   = "td[data-title='Équipe'] a"
	flagSelector   = "td[data-title='Nationalité'] .nation.small"
	ratingSelector = "span.label.rating"
	photoSelector  = "img.player.small"
	logoSelector   = "img.team.small"
)

// ParsePlayers extracts one Player per visible, non-advertisement row of a
// listing page, in document order. Relative image paths are resolved
// against siteRoot. A row without a club link yields an empty club name.
func ParsePlayers(r io.Reader, siteRoot string) ([]models.Player, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, "", err)
	}

	rows := doc.Find(rowSelector).Not(".table-ad").Not(".hidden")
	players := make([]models.Player, 0, rows.Length())

	rows.Each(func(_ int, row *goquery.Selection) {
		player := models.Player{
			ID:     strings.TrimSpace(row.AttrOr("data-playerid", "")),
			Name:   strings.TrimSpace(row.Find(nameSelector).Text()),
			Rating: strings.TrimSpace(row.Find(ratingSelector).First().Text()),
			Photo:  ResolveURL(siteRoot, row.Find(photoSelector).First().AttrOr("src", "")),
			Club: models.Club{
				Logo: ResolveURL(siteRoot, row.Find(logoSelector).First().AttrOr("src", "")),
			},
			Flag: ResolveURL(siteRoot, row.Find(flagSelector).First().AttrOr("src", "")),
		}
		if title, ok := row.Find(clubSelector).First().Attr("title"); ok {
			player.Club.Name = strings.TrimSpace(title)
		}
		players = append(players, player)
	})

	return players, nil
}

// FetchPlayers fetches page and extracts its players
func (c *Client) FetchPlayers(ctx context.Context, page int, siteRoot string) ([]models.Player, error) {
	body, err := c.FetchPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return ExtractPage(ctx, body, siteRoot)
}

// ExtractPage runs ParsePlayers on an already fetched body inside a span
func ExtractPage(ctx context.Context, body []byte, siteRoot string) ([]models.Player, error) {
	_, span := tracer.Start(ctx, "extract:ParsePlayers")
	defer span.End()

	players, err := ParsePlayers(bytes.NewReader(body), siteRoot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing page")
		return nil, err
	}
	span.SetAttributes(attribute.Int("players", len(players)))
	return players, nil
}
