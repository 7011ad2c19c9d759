package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrStorageNotConfigured = errors.New("storage not configured")

type StoredFile struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type FileStore interface {
	Save(originalName string, src io.Reader) (*StoredFile, error)
}

// DiskStore writes uploads under Dir and serves them below BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (s *DiskStore) Save(originalName string, src io.Reader) (*StoredFile, error) {
	if s.Dir == "" {
		return nil, ErrStorageNotConfigured
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".png"
	}
	name := fmt.Sprintf("%d-%x%s", time.Now().UnixMilli(), rand.Int63(), ext)
	rel := filepath.Join("dishes", name)

	full := filepath.Join(s.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	path := filepath.ToSlash(rel)
	return &StoredFile{
		URL:  strings.TrimSuffix(s.BaseURL, "/") + "/" + path,
		Path: path,
	}, nil
}
