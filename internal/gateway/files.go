package gateway

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/classbridge/classbridge/internal/platform/blob"
)

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadFile streams a payload to the given storage path. When size is known
// and onProgress is non-nil, it receives a 0-100 percentage per chunk.
func (g *Gateway) UploadFile(ctx context.Context, path string, r io.Reader, size int64, onProgress blob.ProgressFunc) (UploadResult, error) {
	url, err := g.blobs.Put(ctx, path, r, size, onProgress)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: url, Key: path}, nil
}

// OpenFile streams a stored blob.
func (g *Gateway) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return g.blobs.Get(ctx, key)
}

type DocumentLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListDocumentsByRoll lists the roll number's document folder and resolves
// all download URLs concurrently, preserving listing order.
func (g *Gateway) ListDocumentsByRoll(ctx context.Context, rollNo string) ([]DocumentLink, error) {
	items, err := g.blobs.List(ctx, "documents/"+rollNo)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentLink, len(items))
	eg, ctx := errgroup.WithContext(ctx)
	for i, it := range items {
		i, it := i, it
		eg.Go(func() error {
			url, err := g.blobs.URL(ctx, it.Key)
			if err != nil {
				return err
			}
			out[i] = DocumentLink{Name: it.Name, URL: url}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
