package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DiskImageStore writes uploads to local disk under per-category directories
// and serves them back with a plain file server.
type DiskImageStore struct {
	root string
	now  func() time.Time
}

func NewDiskImageStore(root string) (*DiskImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &DiskImageStore{root: root, now: time.Now}, nil
}

func (s *DiskImageStore) Save(ctx context.Context, category, ext string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", category, err)
	}

	// Timestamp naming; bump on the rare same-millisecond collision.
	ts := s.now().UnixMilli()
	var f *os.File
	var name string
	for {
		name = strconv.FormatInt(ts, 10) + ext
		var err error
		f, err = os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create image file: %w", err)
		}
		ts++
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("save image file: %w", err)
	}
	return "/" + path.Join(category, name), nil
}

func (s *DiskImageStore) Remove(ctx context.Context, publicPath string) error {
	rel := strings.TrimPrefix(path.Clean(publicPath), "/")
	if rel == "" || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid image path %q", publicPath)
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

func (s *DiskImageStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.root))
}
