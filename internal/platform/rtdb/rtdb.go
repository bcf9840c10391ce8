package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// Store is a path-addressed tree of JSON values. Set overwrites the full
// subtree at a path; Push appends a child under a path with a generated
// time-ordered key.
type Store interface {
	Set(ctx context.Context, path string, v any) error
	// Get unmarshals the value at path into out and reports whether it exists.
	Get(ctx context.Context, path string, out any) (bool, error)
	// Push stores v under path with a generated key and returns the key.
	Push(ctx context.Context, path string, v any) (string, error)
	// Children returns the direct children of path in key order.
	Children(ctx context.Context, path string) ([]Child, error)
}

type Child struct {
	Key  string
	Data json.RawMessage
}

var treeBucket = []byte("tree")

type BoltStore struct {
	db  *bolt.DB
	gen *pushIDGen
}

func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(treeBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, gen: newPushIDGen()}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

var _ Store = (*BoltStore)(nil)

func (s *BoltStore) Set(_ context.Context, path string, v any) error {
	key, err := cleanPath(path)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(treeBucket)
		// drop the old subtree; a set replaces everything below the path
		prefix := []byte(key + "/")
		c := b.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return b.Put([]byte(key), buf)
	})
}

func (s *BoltStore) Get(_ context.Context, path string, out any) (bool, error) {
	key, err := cleanPath(path)
	if err != nil {
		return false, err
	}
	var raw []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(treeBucket).Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (s *BoltStore) Push(_ context.Context, path string, v any) (string, error) {
	key, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	id := s.gen.next()
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(treeBucket).Put([]byte(key+"/"+id), buf)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *BoltStore) Children(_ context.Context, path string) ([]Child, error) {
	key, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	prefix := []byte(key + "/")
	out := []Child{}
	err = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(treeBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			rest := string(k[len(prefix):])
			if strings.Contains(rest, "/") {
				continue // grandchild
			}
			out = append(out, Child{Key: rest, Data: append(json.RawMessage{}, v...)})
		}
		return nil
	})
	return out, err
}

func cleanPath(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", errors.New("empty path")
	}
	return p, nil
}
