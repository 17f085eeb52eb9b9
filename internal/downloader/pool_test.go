package downloader

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifascraper/pkg/logger"
	"fifascraper/pkg/models"
	"fifascraper/pkg/ratelimit"
	"fifascraper/pkg/storage"
)

// mockFetcher fails every asset whose URL is listed in failURLs
type mockFetcher struct {
	mu       sync.Mutex
	failURLs map[string]bool
	calls    []models.Asset
	delay    time.Duration
}

func (m *mockFetcher) Fetch(ctx context.Context, asset models.Asset) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, asset)
	if m.failURLs[asset.URL] {
		return errors.New("connection refused")
	}
	return nil
}

func (m *mockFetcher) callsFor(playerID string) []models.AssetKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kinds []models.AssetKind
	for _, c := range m.calls {
		if c.PlayerID == playerID {
			kinds = append(kinds, c.Kind)
		}
	}
	return kinds
}

// mockStorage lays assets out under a fixed root without touching disk
type mockStorage struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func newMockStorage() *mockStorage {
	return &mockStorage{saved: make(map[string][]byte)}
}

func (m *mockStorage) SaveBytes(dest string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[dest] = data
	return nil
}

func (m *mockStorage) PhotoPath(id string) string  { return "photos/" + id + ".png" }
func (m *mockStorage) LogoPath(club string) string { return "clubs/" + club + ".png" }
func (m *mockStorage) FlagPath(name string) string { return "flags/" + name }

func testPlayer(id string) models.Player {
	return models.Player{
		ID:    id,
		Name:  "Player " + id,
		Photo: "https://cdn.test/photos/" + id + ".png",
		Club:  models.Club{Name: "Club " + id, Logo: "https://cdn.test/clubs/" + id + ".png"},
		Flag:  "https://cdn.test/flags/" + id + ".png",
	}
}

func collect(t *testing.T, pool *WorkerPool, n int) []Result {
	t.Helper()
	var results []Result
	timeout := time.After(5 * time.Second)
	for len(results) < n {
		select {
		case r := <-pool.Results():
			results = append(results, r)
		case <-timeout:
			t.Fatalf("timed out after %d of %d results", len(results), n)
		}
	}
	return results
}

func TestPlanAssets(t *testing.T) {
	p := models.Player{
		ID:    "7",
		Photo: "https://www.fifaindex.com/static/players/7.png",
		Club:  models.Club{Name: "Atlético de Madrid", Logo: "https://www.fifaindex.com/static/crest/240.png"},
		Flag:  "https://www.fifaindex.com/static/flags/45.png",
	}

	assets := PlanAssets(&p, newMockStorage())
	require.Len(t, assets, 3)
	assert.Equal(t, models.Asset{Kind: models.AssetPhoto, PlayerID: "7", URL: p.Photo, Dest: "photos/7.png"}, assets[0])
	assert.Equal(t, "clubs/AtleticodeMadrid.png", assets[1].Dest)
	assert.Equal(t, "flags/45.png", assets[2].Dest)

	p.Club.Name = ""
	assert.Equal(t, "clubs/undefined.png", PlanAssets(&p, newMockStorage())[1].Dest)
}

func TestWorkerPoolOneResultPerPlayer(t *testing.T) {
	// player i fails i of its three assets
	players := []models.Player{testPlayer("0"), testPlayer("1"), testPlayer("2"), testPlayer("3")}
	fetcher := &mockFetcher{failURLs: map[string]bool{
		players[1].Photo: true,
		players[2].Photo: true, players[2].Flag: true,
		players[3].Photo: true, players[3].Club.Logo: true, players[3].Flag: true,
	}}

	pool := NewWorkerPool(context.Background(), 1, fetcher, newMockStorage(), logger.NewTestLogger())
	pool.Start()
	go func() {
		for i, p := range players {
			assert.NoError(t, pool.Submit(Job{Index: i, Player: p}))
		}
	}()

	results := collect(t, pool, len(players))
	pool.Stop()

	// the closed channel yields nothing more
	_, open := <-pool.Results()
	assert.False(t, open)

	byIndex := make(map[int]Result)
	for _, r := range results {
		_, dup := byIndex[r.Job.Index]
		assert.False(t, dup, "duplicate result for job %d", r.Job.Index)
		byIndex[r.Job.Index] = r
	}
	for i := range players {
		assert.Len(t, byIndex[i].Failed, i, "player %d", i)
		assert.Equal(t,
			[]models.AssetKind{models.AssetPhoto, models.AssetLogo, models.AssetFlag},
			fetcher.callsFor(players[i].ID), "player %d", i)
	}
	assert.True(t, byIndex[0].Succeeded())
	assert.Equal(t, models.AssetFlag, byIndex[2].Failed[1].Kind)
}

func TestWorkerPoolMultipleWorkers(t *testing.T) {
	fetcher := &mockFetcher{delay: time.Millisecond}
	pool := NewWorkerPool(context.Background(), 3, fetcher, newMockStorage(), logger.NewNopLogger())
	pool.Start()

	const n = 20
	go func() {
		for i := 0; i < n; i++ {
			_ = pool.Submit(Job{Index: i, Player: testPlayer(string(rune('a' + i)))})
		}
	}()

	results := collect(t, pool, n)
	pool.Stop()

	assert.Len(t, results, n)
	fetcher.mu.Lock()
	assert.Len(t, fetcher.calls, 3*n)
	fetcher.mu.Unlock()
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, &mockFetcher{}, newMockStorage(), logger.NewNopLogger())

	// fill the buffer without workers, then cancel
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.Submit(Job{Index: i}))
	}
	assert.Equal(t, 2, pool.GetQueueSize())
	cancel()
	assert.Error(t, pool.Submit(Job{Index: 2}))
}

func TestFetcherStoresThroughThrottle(t *testing.T) {
	store, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)

	client := &stubClient{payloads: map[string][]byte{"https://cdn.test/7.png": []byte("png")}}
	fetcher := NewFetcher(client, store, ratelimit.NewThrottle(0))

	asset := models.Asset{Kind: models.AssetPhoto, PlayerID: "7", URL: "https://cdn.test/7.png", Dest: store.PhotoPath("7")}
	require.NoError(t, fetcher.Fetch(context.Background(), asset))
	assert.True(t, store.Exists(filepath.Join(store.BaseDir(), "data", "images", "photos", "7.png")))

	missing := asset
	missing.URL = "https://cdn.test/404.png"
	assert.Error(t, fetcher.Fetch(context.Background(), missing))
}

func TestFetcherStorageError(t *testing.T) {
	store := newMockStorage()
	store.err = errors.New("disk full")
	client := &stubClient{payloads: map[string][]byte{"u": []byte("x")}}

	err := NewFetcher(client, store, ratelimit.NewThrottle(0)).
		Fetch(context.Background(), models.Asset{Kind: models.AssetFlag, URL: "u", Dest: "flags/u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

type stubClient struct {
	payloads map[string][]byte
}

func (s *stubClient) DownloadImage(_ context.Context, url string) ([]byte, error) {
	if data, ok := s.payloads[url]; ok {
		return data, nil
	}
	return nil, errors.New("404 Not Found")
}
