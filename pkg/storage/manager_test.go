package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesLayout(t *testing.T) {
	base := t.TempDir()
	_, err := NewManager(base)
	require.NoError(t, err)

	for _, dir := range []string{
		"data/images/photos",
		"data/images/clubs",
		"data/images/flags",
		"data/players",
	} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}

func TestNewManagerFailsOnFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0644))

	_, err := NewManager(base)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	base := m.BaseDir()

	assert.Equal(t, filepath.Join(base, "data", "images", "photos", "7.png"), m.PhotoPath("7"))
	assert.Equal(t, filepath.Join(base, "data", "images", "clubs", "FCBarcelona.png"), m.LogoPath("FCBarcelona"))
	assert.Equal(t, filepath.Join(base, "data", "images", "flags", "52.png"), m.FlagPath("52.png"))
	assert.Equal(t, filepath.Join(base, "data", "images", "flags"), m.FlagPath(""))
	assert.Equal(t, filepath.Join(base, "data", "players", "TestPlayer.json"), m.PlayerPath("TestPlayer"))
	assert.Equal(t, filepath.Join(base, "data", "index.json"), m.IndexPath())

	// identifiers never escape their directory
	assert.Equal(t, filepath.Join(base, "data", "images", "photos", "passwd.png"), m.PhotoPath("../../etc/passwd"))
}

func TestPublicPaths(t *testing.T) {
	assert.Equal(t, "/data/images/photos/7.png", PublicPhoto("7.png"))
	assert.Equal(t, "/data/images/photos/none.png", PublicPhoto("none.png"))
	assert.Equal(t, "/data/images/clubs/undefined.png", PublicLogo("undefined"))
	assert.Equal(t, "/data/images/flags/52.png", PublicFlag("52.png"))
	assert.Equal(t, "./data/players/TestPlayer.json", IndexEntry("TestPlayer"))
}

func TestSaveFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	dest := m.PhotoPath("7")
	assert.False(t, m.Exists(dest))

	require.NoError(t, m.SaveFile(dest, strings.NewReader("png bytes")))
	assert.True(t, m.Exists(dest))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))

	// overwrite keeps a single file and leaves no temporaries behind
	require.NoError(t, m.SaveBytes(dest, []byte("newer")))
	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(2), m.WrittenCount())
}

func TestSaveFileIntoDirectoryFails(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	err = m.SaveBytes(m.FlagPath(""), []byte("flag"))
	assert.Error(t, err)
	assert.False(t, m.Exists(m.FlagPath("")))

	entries, err := os.ReadDir(m.FlagPath(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteJSON(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	index := map[string]string{"TestPlayer": IndexEntry("TestPlayer")}
	require.NoError(t, m.WriteJSON(m.IndexPath(), index))

	data, err := os.ReadFile(m.IndexPath())
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, index, decoded)

	assert.Error(t, m.WriteJSON(m.IndexPath(), make(chan int)))
}
