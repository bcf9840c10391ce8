package docstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/classbridge/classbridge/internal/db"
	"github.com/classbridge/classbridge/internal/platform/docstore"
)

func newStore(t *testing.T) *docstore.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "docs.db") + "?cache=shared&mode=rwc"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return docstore.NewSQLStore(dbh, "sqlite")
}

func TestAddAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "notices", map[string]any{"title": "Exam schedule"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	d, err := s.Get(ctx, "notices", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d == nil {
		t.Fatal("document should exist")
	}
	if d.Data["title"] != "Exam schedule" {
		t.Fatalf("data = %v", d.Data)
	}
	if d.CreatedAt == 0 {
		t.Fatal("created_at should be server-assigned")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newStore(t)
	d, err := s.Get(context.Background(), "users", "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d != nil {
		t.Fatalf("want nil, got %+v", d)
	}
}

func TestSetMergeKeepsExistingFields(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "users", "u1", map[string]any{"name": "Asha", "role": "student"}, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "users", "u1", map[string]any{"role": "teacher"}, true); err != nil {
		t.Fatalf("merge set: %v", err)
	}
	d, err := s.Get(ctx, "users", "u1")
	if err != nil || d == nil {
		t.Fatalf("get: %v %v", d, err)
	}
	if d.Data["name"] != "Asha" || d.Data["role"] != "teacher" {
		t.Fatalf("merged doc = %v", d.Data)
	}
}

func TestSetWithoutMergeReplaces(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "users", "u1", map[string]any{"name": "Asha", "role": "student"}, false); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "users", "u1", map[string]any{"name": "Asha"}, false); err != nil {
		t.Fatal(err)
	}
	d, _ := s.Get(ctx, "users", "u1")
	if _, ok := d.Data["role"]; ok {
		t.Fatalf("replace should have dropped role: %v", d.Data)
	}
}

func TestQueryFiltersAndOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "classes", "c1", map[string]any{"code": "A1", "members": []any{"u1", "u2"}}, false); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "classes", "c2", map[string]any{"code": "B2", "members": []any{"u2"}}, false); err != nil {
		t.Fatal(err)
	}

	byMember, err := s.Query(ctx, "classes", docstore.Query{
		Filters: []docstore.Filter{{Field: "members", Op: docstore.OpArrayContains, Value: "u1"}},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byMember) != 1 || byMember[0].ID != "c1" {
		t.Fatalf("membership filter got %+v", byMember)
	}

	byCode, err := s.Query(ctx, "classes", docstore.Query{
		Filters: []docstore.Filter{{Field: "code", Op: docstore.OpEqual, Value: "B2"}},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byCode) != 1 || byCode[0].ID != "c2" {
		t.Fatalf("equality filter got %+v", byCode)
	}

	all, err := s.Query(ctx, "classes", docstore.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered query got %d docs", len(all))
	}
}

func TestArrayUnion(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "classes", "c1", map[string]any{"members": []any{"u1"}}, false); err != nil {
		t.Fatal(err)
	}
	if err := s.ArrayUnion(ctx, "classes", "c1", "members", "u2"); err != nil {
		t.Fatalf("union: %v", err)
	}
	// idempotent
	if err := s.ArrayUnion(ctx, "classes", "c1", "members", "u2"); err != nil {
		t.Fatalf("second union: %v", err)
	}
	d, _ := s.Get(ctx, "classes", "c1")
	members := d.Data["members"].([]any)
	if len(members) != 2 {
		t.Fatalf("members = %v", members)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "notices", map[string]any{"title": "old"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "notices", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	d, err := s.Get(ctx, "notices", id)
	if err != nil || d != nil {
		t.Fatalf("deleted doc still present: %v %v", d, err)
	}
}
