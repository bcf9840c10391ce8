package mail

import (
	"context"
	"log"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleMailer writes messages to the log. Default in dev.
type ConsoleMailer struct {
	From string
}

var _ Mailer = (*ConsoleMailer)(nil)

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mail: from=%s to=%s subject=%q\n%s", m.From, msg.To, msg.Subject, msg.Body)
	return nil
}
