package gateway

import (
	"context"

	"github.com/classbridge/classbridge/internal/platform/docstore"
)

type Classroom struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	Creator   string   `json:"creator"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

// CreateClassroom creates a classroom with the creator as sole initial
// member and returns the generated id. Codes are not checked for uniqueness.
func (g *Gateway) CreateClassroom(ctx context.Context, uid, name, code string) (string, error) {
	return g.docs.Add(ctx, colClasses, map[string]any{
		"name":    name,
		"code":    code,
		"creator": uid,
		"members": []any{uid},
	})
}

// UserClassrooms returns every classroom whose member set contains uid.
func (g *Gateway) UserClassrooms(ctx context.Context, uid string) ([]Classroom, error) {
	docs, err := g.docs.Query(ctx, colClasses, docstore.Query{
		Filters: []docstore.Filter{{Field: "members", Op: docstore.OpArrayContains, Value: uid}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Classroom, 0, len(docs))
	for _, d := range docs {
		var c Classroom
		if err := decodeInto(d.Data, &c); err != nil {
			return nil, err
		}
		c.ID = d.ID
		c.CreatedAt = d.CreatedAt
		out = append(out, c)
	}
	return out, nil
}

// JoinClassroom appends uid to the member set of the classroom with the
// given code and returns the classroom id.
func (g *Gateway) JoinClassroom(ctx context.Context, uid, code string) (string, error) {
	docs, err := g.docs.Query(ctx, colClasses, docstore.Query{
		Filters: []docstore.Filter{{Field: "code", Op: docstore.OpEqual, Value: code}},
	})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", ErrClassroomNotFound
	}
	id := docs[0].ID
	if err := g.docs.ArrayUnion(ctx, colClasses, id, "members", uid); err != nil {
		return "", err
	}
	return id, nil
}
