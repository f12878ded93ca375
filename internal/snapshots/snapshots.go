// Package snapshots archives the camera frames captured around a shelf
// interaction. Each transaction gets its own folder named by the kiosk
// controller, referenced from judgment requests as snapshot_folder.
package snapshots

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	basePath string
}

func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Save writes one frame into the transaction folder. An empty filename gets
// a generated name; the stored name is returned either way.
func (s *Store) Save(folder, filename string, frame io.Reader) (string, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transaction folder: %w", err)
	}

	if filename == "" {
		filename = uuid.New().String() + ".jpg"
	}
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename")
	}

	fullPath := filepath.Join(dir, filename)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, frame); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save frame: %w", err)
	}

	return filename, nil
}

// List returns the frame filenames in a transaction folder, sorted by name.
func (s *Store) List(folder string) ([]string, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Exists reports whether the transaction folder is present.
func (s *Store) Exists(folder string) bool {
	dir, err := s.folderPath(folder)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (s *Store) Open(folder, filename string) (io.ReadSeekCloser, error) {
	dir, err := s.folderPath(folder)
	if err != nil {
		return nil, err
	}
	if filepath.Base(filename) != filename {
		return nil, fmt.Errorf("invalid filename")
	}

	file, err := os.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	return file, nil
}

// Prune removes transaction folders older than maxAge and returns how many
// were deleted.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.basePath, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) folderPath(folder string) (string, error) {
	clean := filepath.Clean(folder)
	if clean == "." || clean == "/" || strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid folder name")
	}
	return filepath.Join(s.basePath, clean), nil
}
