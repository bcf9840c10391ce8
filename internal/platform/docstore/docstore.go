package docstore

import "context"

// Document is one record in a collection. Data holds the decoded JSON body;
// CreatedAt is the server-assigned creation time (unix seconds).
type Document struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt int64          `json:"created_at"`
}

type Op string

const (
	OpEqual         Op = "=="
	OpArrayContains Op = "array-contains"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a collection scan. Filters are ANDed; ordering is by
// creation time.
type Query struct {
	Filters    []Filter
	Descending bool
}

type Store interface {
	// Add inserts a new document under a generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set writes the document at id. With merge, existing fields not present
	// in data are kept; otherwise the document is replaced.
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	// Get returns the document, or nil when it does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	// ArrayUnion appends value to the named array field unless already present.
	ArrayUnion(ctx context.Context, collection, id, field string, value any) error
}
