package blob_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/classbridge/classbridge/internal/platform/blob"
)

func newStore(t *testing.T) *blob.FSStore {
	t.Helper()
	s, err := blob.NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	payload := []byte("syllabus contents")
	url, err := s.Put(ctx, "documents/cs101/syllabus.pdf", bytes.NewReader(payload), int64(len(payload)), nil)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Fatalf("dev URL should be file://, got %q", url)
	}

	rc, err := s.Get(ctx, "documents/cs101/syllabus.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestPutProgressMonotonicBounded(t *testing.T) {
	s := newStore(t)
	payload := bytes.Repeat([]byte("x"), 200*1024) // several 32K chunks

	var pcts []float64
	_, err := s.Put(context.Background(), "big.bin", bytes.NewReader(payload), int64(len(payload)), func(pct float64) {
		pcts = append(pcts, pct)
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(pcts) == 0 {
		t.Fatal("expected progress callbacks")
	}
	prev := 0.0
	for _, p := range pcts {
		if p < prev {
			t.Fatalf("progress went backwards: %v then %v", prev, p)
		}
		if p < 0 || p > 100 {
			t.Fatalf("progress out of range: %v", p)
		}
		prev = p
	}
	if pcts[len(pcts)-1] != 100 {
		t.Fatalf("final progress = %v, want 100", pcts[len(pcts)-1])
	}
}

func TestPutNoProgressWhenSizeUnknown(t *testing.T) {
	s := newStore(t)
	called := false
	_, err := s.Put(context.Background(), "unknown.bin", strings.NewReader("data"), 0, func(float64) {
		called = true
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if called {
		t.Fatal("progress must not be reported for unknown size")
	}
}

func TestListFolder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		if _, err := s.Put(ctx, "documents/r42/"+name, strings.NewReader("x"), 1, nil); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}
	// a nested folder entry must not appear in the listing
	if _, err := s.Put(ctx, "documents/r42/sub/c.pdf", strings.NewReader("x"), 1, nil); err != nil {
		t.Fatal(err)
	}

	items, err := s.List(ctx, "documents/r42")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("list = %d items, want 2: %+v", len(items), items)
	}
	if items[0].Key != "documents/r42/a.pdf" {
		t.Fatalf("unexpected key %q", items[0].Key)
	}
}

func TestListMissingFolderIsEmpty(t *testing.T) {
	s := newStore(t)
	items, err := s.List(context.Background(), "documents/none")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("missing folder should list empty, got %+v", items)
	}
}

func TestKeysCannotEscapeBase(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "blobs")
	s, err := blob.NewFSStore(base, "")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	escaping := []string{
		"../escaped.txt",
		"../../escaped.txt",
		"documents/../../escaped.txt",
		"..",
		"/etc/escaped.txt",
	}
	for _, key := range escaping {
		if _, err := s.Put(ctx, key, strings.NewReader("owned"), 5, nil); !errors.Is(err, blob.ErrKeyOutsideBase) {
			t.Fatalf("Put(%q) = %v, want ErrKeyOutsideBase", key, err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, blob.ErrKeyOutsideBase) {
			t.Fatalf("Get(%q) = %v, want ErrKeyOutsideBase", key, err)
		}
		if _, err := s.List(ctx, key); !errors.Is(err, blob.ErrKeyOutsideBase) {
			t.Fatalf("List(%q) = %v, want ErrKeyOutsideBase", key, err)
		}
		if _, err := s.URL(ctx, key); !errors.Is(err, blob.ErrKeyOutsideBase) {
			t.Fatalf("URL(%q) = %v, want ErrKeyOutsideBase", key, err)
		}
	}
	if _, err := os.Stat(filepath.Join(tmp, "escaped.txt")); !os.IsNotExist(err) {
		t.Fatal("escaping key wrote outside the base directory")
	}

	// dot segments that stay inside the base are still fine
	if _, err := s.Put(ctx, "documents/../a.txt", strings.NewReader("x"), 1, nil); err != nil {
		t.Fatalf("in-base dot segment rejected: %v", err)
	}
	if _, err := s.Get(ctx, "a.txt"); err != nil {
		t.Fatalf("cleaned key not stored under base: %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	s, err := blob.NewFSStore(t.TempDir(), "https://cdn.example.com/files/")
	if err != nil {
		t.Fatal(err)
	}
	url, err := s.URL(context.Background(), "notices/1_a.png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/files/notices/1_a.png" {
		t.Fatalf("url = %q", url)
	}
}
