package fifaindex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "fifascraper/pkg/errors"
	"fifascraper/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fixture := loadFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/fr/players/1/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fifascraper-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(fixture)
	})
	mux.HandleFunc("/fr/players/2/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/img/7.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG"))
	})
	mux.HandleFunc("/img/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(server *httptest.Server, timeout time.Duration) *Client {
	return NewClient(ClientOptions{
		ListingURL: server.URL + "/fr/players/",
		UserAgent:  "fifascraper-test",
		Timeout:    timeout,
		Logger:     logger.NewTestLogger(),
	})
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(ClientOptions{Logger: logger.NewNopLogger()})
	assert.Equal(t, DefaultListingURL, client.listingURL)
	assert.Equal(t, 15*time.Second, client.http.GetClient().Timeout)
}

func TestFetchPage(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, time.Second)

	body, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Lionel Messi")
}

func TestFetchPageStatusError(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, time.Second)

	_, err := client.FetchPage(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeServerError, errs.TypeOf(err))

	_, err = client.FetchPage(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNotFound, errs.TypeOf(err))
}

func TestFetchPageTransportError(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, time.Second)
	server.Close()

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeTransport, errs.TypeOf(err))
}

func TestFetchPlayers(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, time.Second)

	players, err := client.FetchPlayers(context.Background(), 1, server.URL)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, server.URL+"/static/FIFA21/images/players/10/158023.png", players[0].Photo)
}

func TestDownloadImage(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, 100*time.Millisecond)

	data, err := client.DownloadImage(context.Background(), server.URL+"/img/7.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)

	_, err = client.DownloadImage(context.Background(), server.URL+"/img/missing.png")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeDownload, errs.TypeOf(err))

	_, err = client.DownloadImage(context.Background(), "")
	assert.Equal(t, errs.ErrorTypeDownload, errs.TypeOf(err))
}

func TestDownloadImageTimeout(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(server, 50*time.Millisecond)

	start := time.Now()
	_, err := client.DownloadImage(context.Background(), server.URL+"/img/slow.png")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeDownload, errs.TypeOf(err))
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
