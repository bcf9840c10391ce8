package blob

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type FSStore struct {
	base      string
	publicURL string // base for download URLs; empty -> file:// for dev
}

func NewFSStore(base, publicURL string) (*FSStore, error) {
	if base == "" {
		base = "./data/blobs"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

var _ Store = (*FSStore)(nil)

// ErrKeyOutsideBase is returned for keys that would resolve outside the
// store's base directory. Keys arrive from clients, so absolute paths and
// any cleaned form that climbs above the root are refused.
var ErrKeyOutsideBase = errors.New("key escapes store base")

// resolve maps a client-supplied key to a path under base.
func (s *FSStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrKeyOutsideBase
	}
	return filepath.Join(s.base, clean), nil
}

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, size int64, progress ProgressFunc) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var written int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return "", werr
			}
			written += int64(n)
			if progress != nil && size > 0 {
				pct := float64(written) / float64(size) * 100
				if pct > 100 {
					pct = 100
				}
				progress(pct)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	return s.URL(ctx, key)
}

func (s *FSStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(src)
}

func (s *FSStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	dir, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ObjectInfo{}, nil
		}
		return nil, err
	}
	out := []ObjectInfo{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, ObjectInfo{
			Name: e.Name(),
			Key:  path.Join(prefix, e.Name()),
		})
	}
	return out, nil
}

func (s *FSStore) URL(_ context.Context, key string) (string, error) {
	p, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if s.publicURL != "" {
		return s.publicURL + "/" + strings.TrimPrefix(key, "/"), nil
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}
