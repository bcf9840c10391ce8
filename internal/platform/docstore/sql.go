package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	buf, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection,id,data,created_at) VALUES ($1,$2,$3,$4)`,
		collection, id, string(buf), time.Now().Unix())
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	if merge {
		existing, err := s.Get(ctx, collection, id)
		if err != nil {
			return err
		}
		if existing != nil {
			merged := existing.Data
			for k, v := range data {
				merged[k] = v
			}
			data = merged
		}
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection,id,data,created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (collection,id) DO UPDATE SET data=EXCLUDED.data`,
		collection, id, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,data,created_at FROM documents WHERE collection=$1 AND id=$2`,
		collection, id)
	var d Document
	var body string
	if err := row.Scan(&d.ID, &body, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &d.Data); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	return err
}

func (s *SQLStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	order := "ASC"
	if q.Descending {
		order = "DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,data,created_at FROM documents WHERE collection=$1 ORDER BY created_at `+order,
		collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var d Document
		var body string
		if err := rows.Scan(&d.ID, &body, &d.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(body), &d.Data); err != nil {
			return nil, err
		}
		if matches(d, q.Filters) {
			out = append(out, d)
		}
	}
	return out, rows.Err()
}

func (s *SQLStore) ArrayUnion(ctx context.Context, collection, id, field string, value any) error {
	d, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("document %s/%s not found", collection, id)
	}
	arr, _ := d.Data[field].([]any)
	for _, v := range arr {
		if jsonEqual(v, value) {
			return nil
		}
	}
	d.Data[field] = append(arr, value)
	return s.Set(ctx, collection, id, d.Data, false)
}

// Filters run over the decoded documents; collections here are small and the
// two supported operators mirror the platform query surface.
func matches(d Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := d.Data[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEqual:
			if !jsonEqual(v, f.Value) {
				return false
			}
		case OpArrayContains:
			arr, ok := v.([]any)
			if !ok {
				return false
			}
			found := false
			for _, e := range arr {
				if jsonEqual(e, f.Value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// jsonEqual compares a decoded JSON value with a caller-supplied one,
// tolerating the float64 shape json.Unmarshal gives numbers.
func jsonEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
