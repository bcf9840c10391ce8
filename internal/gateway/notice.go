package gateway

import (
	"context"
	"fmt"
	"io"

	"github.com/classbridge/classbridge/internal/audit"
	"github.com/classbridge/classbridge/internal/platform/docstore"
)

type Notice struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	FileURL   string `json:"fileURL"`
	FileName  string `json:"fileName"`
	Sender    string `json:"sender"`
	CreatedAt int64  `json:"createdAt"`
}

// Attachment is an optional file posted with a notice.
type Attachment struct {
	Name string
	Size int64
	Body io.Reader
}

// PostNotice uploads the attachment, if any, under a timestamped key and
// records the notice. Returns the new notice id.
func (g *Gateway) PostNotice(ctx context.Context, title, message string, file *Attachment, sender string) (string, error) {
	var fileURL, fileName string
	if file != nil {
		key := fmt.Sprintf("notices/%d_%s", g.now().UnixMilli(), file.Name)
		url, err := g.blobs.Put(ctx, key, file.Body, file.Size, nil)
		if err != nil {
			return "", fmt.Errorf("upload attachment: %w", err)
		}
		fileURL, fileName = url, file.Name
	}
	id, err := g.docs.Add(ctx, colNotices, map[string]any{
		"title":    title,
		"message":  message,
		"fileURL":  fileURL,
		"fileName": fileName,
		"sender":   sender,
	})
	if err != nil {
		return "", err
	}
	g.recordEvent(ctx, audit.EventNoticePosted, id, map[string]string{"title": title, "sender": sender})
	return id, nil
}

// Notices returns all notices, newest first.
func (g *Gateway) Notices(ctx context.Context) ([]Notice, error) {
	docs, err := g.docs.Query(ctx, colNotices, docstore.Query{Descending: true})
	if err != nil {
		return nil, err
	}
	out := make([]Notice, 0, len(docs))
	for _, d := range docs {
		var n Notice
		if err := decodeInto(d.Data, &n); err != nil {
			return nil, err
		}
		n.ID = d.ID
		n.CreatedAt = d.CreatedAt
		out = append(out, n)
	}
	return out, nil
}
