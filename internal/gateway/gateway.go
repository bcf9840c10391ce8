// Package gateway is the domain facade over the platform services: account
// registry, document store, blob storage and the realtime tree. Every
// operation is a stateless request/response composition of one or a few
// platform calls; the only state is the bound session.
package gateway

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/classbridge/classbridge/internal/grading"
	"github.com/classbridge/classbridge/internal/mail"
	"github.com/classbridge/classbridge/internal/platform/auth"
	"github.com/classbridge/classbridge/internal/platform/blob"
	"github.com/classbridge/classbridge/internal/platform/docstore"
	"github.com/classbridge/classbridge/internal/platform/rtdb"
)

var (
	ErrNotSignedIn       = errors.New("not signed in")
	ErrInvalidTest       = errors.New("invalid test data")
	ErrTestNotFound      = errors.New("test not found")
	ErrClassroomNotFound = errors.New("classroom not found")
)

const (
	colUsers   = "users"
	colClasses = "classes"
	colNotices = "notices"
)

// Accounts is the credential surface the facade needs from the auth service.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	VerifyCredential(ctx context.Context, email, password string) (string, error)
	Reauthenticate(ctx context.Context, uid, password string) error
	UIDByEmail(ctx context.Context, email string) (string, error)
	MakeResetToken(ctx context.Context, uid string) (string, error)
	ResetPassword(ctx context.Context, uid, token, newPassword string) error
}

// Auditor records domain events. A nil auditor disables the trail.
type Auditor interface {
	Append(ctx context.Context, typ, key string, data any) error
}

type Options struct {
	Accounts Accounts
	Docs     docstore.Store
	Blobs    blob.Store
	Realtime rtdb.Store
	Mailer   mail.Mailer
	Audit    Auditor

	// Session the gateway is bound to. A fresh signed-out session is used
	// when nil.
	Session *auth.Session

	// OnSignedOut is RequireAuth's redirect path: invoked whenever the
	// session state reports no user.
	OnSignedOut func()
}

type Gateway struct {
	accounts Accounts
	docs     docstore.Store
	blobs    blob.Store
	rt       rtdb.Store
	mailer   mail.Mailer
	audit    Auditor
	session  *auth.Session
	grader   *grading.Grader

	onSignedOut func()
	now         func() time.Time // mockable
}

func New(o Options) *Gateway {
	sess := o.Session
	if sess == nil {
		sess = auth.NewSession()
	}
	onOut := o.OnSignedOut
	if onOut == nil {
		onOut = func() { log.Println("gateway: session expired or not signed in") }
	}
	return &Gateway{
		accounts:    o.Accounts,
		docs:        o.Docs,
		blobs:       o.Blobs,
		rt:          o.Realtime,
		mailer:      o.Mailer,
		audit:       o.Audit,
		session:     sess,
		grader:      grading.NewDefaultGrader(),
		onSignedOut: onOut,
		now:         time.Now,
	}
}

// Session exposes the bound session for callers that manage sign-in state
// directly (tests, the HTTP layer).
func (g *Gateway) Session() *auth.Session { return g.session }

func (g *Gateway) recordEvent(ctx context.Context, typ, key string, data any) {
	if g.audit == nil {
		return
	}
	if err := g.audit.Append(ctx, typ, key, data); err != nil {
		log.Printf("gateway: audit %s %s: %v", typ, key, err)
	}
}
