package gateway

import (
	"context"
	"encoding/json"
)

type Profile struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	RollNo    string `json:"rollNo"`
	CreatedAt int64  `json:"createdAt"`
}

// UserProfile returns the profile document, or nil when it does not exist.
func (g *Gateway) UserProfile(ctx context.Context, uid string) (*Profile, error) {
	d, err := g.docs.Get(ctx, colUsers, uid)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	var p Profile
	if err := decodeInto(d.Data, &p); err != nil {
		return nil, err
	}
	p.UID = d.ID
	p.CreatedAt = d.CreatedAt
	return &p, nil
}

// SaveUserProfile merge-writes fields into the profile document.
func (g *Gateway) SaveUserProfile(ctx context.Context, uid string, fields map[string]any) error {
	return g.docs.Set(ctx, colUsers, uid, fields, true)
}

// decodeInto reshapes a decoded JSON map into a typed record.
func decodeInto(data map[string]any, out any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

func decodeRaw(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}
