// Package fifaindex talks to the player index site: it fetches paginated
// listing pages and image payloads over resty, and extracts player rows
// from the listing markup with goquery.
//
// Requests carry OpenTelemetry spans named client:FetchPage,
// client:DownloadImage and extract:ParsePlayers. Failures are returned as
// *errors.Error values typed transport, download or by HTTP status.
package fifaindex
