package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
)

// Directory names below the output root. Public paths written into player
// records use the same tree rooted at "/".
const (
	DataDir    = "data"
	ImagesDir  = "images"
	PhotosDir  = "photos"
	ClubsDir   = "clubs"
	FlagsDir   = "flags"
	PlayersDir = "players"
	IndexFile  = "index.json"
)

// Manager owns the on-disk layout of a crawl and performs atomic writes
// inside it
type Manager struct {
	baseDir string
	written atomic.Int64
}

// NewManager creates the data tree below baseDir
func NewManager(baseDir string) (*Manager, error) {
	m := &Manager{baseDir: baseDir}

	for _, dir := range []string{
		m.imageDir(PhotosDir),
		m.imageDir(ClubsDir),
		m.imageDir(FlagsDir),
		filepath.Join(baseDir, DataDir, PlayersDir),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return m, nil
}

func (m *Manager) imageDir(kind string) string {
	return filepath.Join(m.baseDir, DataDir, ImagesDir, kind)
}

// BaseDir returns the output root
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// PhotoPath is where the photo of player id is stored
func (m *Manager) PhotoPath(id string) string {
	return filepath.Join(m.imageDir(PhotosDir), filepath.Base(id)+".png")
}

// LogoPath is where the crest of a normalized club name is stored
func (m *Manager) LogoPath(club string) string {
	return filepath.Join(m.imageDir(ClubsDir), filepath.Base(club)+".png")
}

// FlagPath is where a flag with the given file name is stored. An empty
// name yields the flags directory itself, which can never be written as a
// file.
func (m *Manager) FlagPath(name string) string {
	if name == "" {
		return m.imageDir(FlagsDir)
	}
	return filepath.Join(m.imageDir(FlagsDir), filepath.Base(name))
}

// PlayerPath is where the record of a normalized player name is stored
func (m *Manager) PlayerPath(name string) string {
	return filepath.Join(m.baseDir, DataDir, PlayersDir, filepath.Base(name)+".json")
}

// IndexPath is where the name index is stored
func (m *Manager) IndexPath() string {
	return filepath.Join(m.baseDir, DataDir, IndexFile)
}

// PublicPhoto is the photo path as referenced from a player record
func PublicPhoto(file string) string {
	return path.Join("/", DataDir, ImagesDir, PhotosDir, file)
}

// PublicLogo is the crest path as referenced from a player record
func PublicLogo(club string) string {
	return path.Join("/", DataDir, ImagesDir, ClubsDir, club+".png")
}

// PublicFlag is the flag path as referenced from a player record
func PublicFlag(name string) string {
	return path.Join("/", DataDir, ImagesDir, FlagsDir, name)
}

// IndexEntry is the index value pointing at a player record
func IndexEntry(name string) string {
	return "./" + path.Join(DataDir, PlayersDir, name+".json")
}

// Exists reports whether a regular file is present at p
func (m *Manager) Exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// SaveFile writes r to dest through a temporary file and a rename, so a
// reader never observes a partial file
func (m *Manager) SaveFile(dest string, r io.Reader) error {
	out, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write file data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, dest); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.written.Add(1)
	return nil
}

// SaveBytes is SaveFile for an in-memory payload
func (m *Manager) SaveBytes(dest string, data []byte) error {
	return m.SaveFile(dest, bytes.NewReader(data))
}

// WriteJSON encodes v and writes it atomically to dest
func (m *Manager) WriteJSON(dest string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(dest), err)
	}
	return m.SaveBytes(dest, data)
}

// WrittenCount returns how many files were written by this manager
func (m *Manager) WrittenCount() int64 {
	return m.written.Load()
}
