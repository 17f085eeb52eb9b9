package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifascraper/pkg/logger"
	"fifascraper/pkg/models"
	"fifascraper/pkg/storage"
)

func newStore(t *testing.T, s *Scraper) *storage.Manager {
	t.Helper()
	store, err := storage.NewManager(s.cfg.Output.BaseDirectory)
	require.NoError(t, err)
	return store
}

func TestFinalizeRewritesImagePaths(t *testing.T) {
	s, rep := newUnitScraper(t)
	store := newStore(t, s)
	require.NoError(t, store.SaveBytes(store.PhotoPath("158023"), []byte("png")))

	st := newState()
	st.appendPlayers([]models.Player{
		{
			ID:     "158023",
			Name:   "Lionel Messi",
			Rating: "93",
			Photo:  "https://www.fifaindex.com/static/players/158023.png",
			Club:   models.Club{Name: "FC Barcelona", Logo: "https://www.fifaindex.com/static/crest/241.png"},
			Flag:   "https://www.fifaindex.com/static/flags/52.png",
		},
		{
			ID:     "231747",
			Name:   "Kylian Mbappé",
			Rating: "90",
			Photo:  "https://www.fifaindex.com/static/players/231747.png",
			Club:   models.Club{Name: "Paris Saint-Germain", Logo: "https://www.fifaindex.com/static/crest/73.png"},
			Flag:   "https://www.fifaindex.com/static/flags/18.png",
		},
	})

	res, err := s.finalize(st, store)
	require.NoError(t, err)
	assert.Equal(t, finalizeResult{Saved: 2, Indexed: 2}, res)

	messi := readRecord(t, store.BaseDir(), "LionelMessi")
	assert.Equal(t, "/data/images/photos/158023.png", messi.Photo)
	assert.Equal(t, "/data/images/clubs/FCBarcelona.png", messi.Club.Logo)
	assert.Equal(t, "/data/images/flags/52.png", messi.Flag)
	assert.Equal(t, "FC Barcelona", messi.Club.Name)

	mbappe := readRecord(t, store.BaseDir(), "KylianMbappe")
	assert.Equal(t, "/data/images/photos/none.png", mbappe.Photo)
	assert.Equal(t, "/data/images/clubs/ParisSaint-Germain.png", mbappe.Club.Logo)
	assert.Equal(t, "Kylian Mbappé", mbappe.Name)

	assert.Equal(t, map[string]string{
		"LionelMessi":  "./data/players/LionelMessi.json",
		"KylianMbappe": "./data/players/KylianMbappe.json",
	}, readIndex(t, store.BaseDir()))
	assert.Equal(t, 2, rep.saving)
}

func TestFinalizeRunsOnce(t *testing.T) {
	s, _ := newUnitScraper(t)
	store := newStore(t, s)

	st := newState()
	st.appendPlayers([]models.Player{{ID: "1", Name: "Solo"}})

	first, err := s.finalize(st, store)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Saved)

	second, err := s.finalize(st, store)
	require.NoError(t, err)
	assert.Zero(t, second)
}

func TestFinalizeDuplicateNames(t *testing.T) {
	s, _ := newUnitScraper(t)
	log := s.logger.(*logger.TestLogger)
	store := newStore(t, s)

	st := newState()
	st.appendPlayers([]models.Player{
		{ID: "1", Name: "João Silva", Rating: "70"},
		{ID: "2", Name: "Joao Silva", Rating: "75"},
	})

	res, err := s.finalize(st, store)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Saved)
	assert.Equal(t, 1, res.Indexed)

	record := readRecord(t, store.BaseDir(), "JoaoSilva")
	assert.Equal(t, "2", record.ID)
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
}

func TestFinalizeWriteFailureLeavesNameOut(t *testing.T) {
	s, _ := newUnitScraper(t)
	store := newStore(t, s)

	// a directory where the record should go makes the rename fail
	require.NoError(t, os.MkdirAll(store.PlayerPath("Blocked"), 0755))

	st := newState()
	st.appendPlayers([]models.Player{
		{ID: "1", Name: "Blocked"},
		{ID: "2", Name: "Free"},
	})

	res, err := s.finalize(st, store)
	require.NoError(t, err)
	assert.Equal(t, 1, res.WriteFailures)
	assert.Equal(t, 1, res.Saved)
	assert.Equal(t, map[string]string{"Free": "./data/players/Free.json"}, readIndex(t, store.BaseDir()))
	assert.DirExists(t, filepath.Join(store.BaseDir(), "data", "players", "Blocked.json"))
}

func TestFinalizePlayerWithoutFlag(t *testing.T) {
	s, _ := newUnitScraper(t)
	store := newStore(t, s)

	st := newState()
	st.appendPlayers([]models.Player{{ID: "5", Name: "No Flag", Flag: ""}})

	_, err := s.finalize(st, store)
	require.NoError(t, err)

	record := readRecord(t, store.BaseDir(), "NoFlag")
	assert.Equal(t, "", record.Flag)
	assert.Equal(t, "/data/images/clubs/undefined.png", record.Club.Logo)
}
