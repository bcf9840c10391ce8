package blob

import (
	"context"
	"io"
)

// ProgressFunc receives upload progress as a 0-100 percentage.
type ProgressFunc func(pct float64)

type ObjectInfo struct {
	Name string `json:"name"` // base name within its folder
	Key  string `json:"key"`  // full storage key
}

type Store interface {
	// Put streams r to the given key and returns the object's download URL.
	// When size is known (>0) and progress is non-nil, progress is invoked
	// with a monotonically non-decreasing percentage per chunk written; an
	// unknown size (<=0) suppresses progress reporting entirely.
	Put(ctx context.Context, key string, r io.Reader, size int64, progress ProgressFunc) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns the objects directly under the given folder key. A folder
	// that does not exist lists as empty.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	URL(ctx context.Context, key string) (string, error)
}
