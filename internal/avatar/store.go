package avatar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	FreePrefix    = "free"
	PremiumPrefix = "premium"
)

// ObjectStore lists icon files and builds their public URLs.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	PublicURL(key string) string
}

// DirStore serves icons from a local directory laid out as <dir>/free and
// <dir>/premium.
type DirStore struct {
	root    string
	baseURL string
}

func NewDirStore(root, publicBaseURL string) *DirStore {
	return &DirStore{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *DirStore) Root() string {
	return s.root
}

// List returns image file names under prefix, sorted. A missing prefix
// directory is an empty listing.
func (s *DirStore) List(ctx context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.Clean(prefix)))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list avatars %s: %w", prefix, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, ctx.Err()
}

func (s *DirStore) PublicURL(key string) string {
	return s.baseURL + "/" + path.Clean(strings.TrimLeft(key, "/"))
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return true
	}
	return false
}
