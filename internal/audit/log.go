package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventUserRegistered = "UserRegistered"
	EventNoticePosted   = "NoticePosted"
	EventTestSubmitted  = "TestSubmitted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: uid, notice id, test id
	DataJSON  string
	CreatedAt int64
}

// Log is an append-only audit trail in SQL.
type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

func (l *Log) Append(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}
