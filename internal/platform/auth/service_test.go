package auth_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/classbridge/classbridge/internal/db"
	"github.com/classbridge/classbridge/internal/platform/auth"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "auth.db") + "?cache=shared&mode=rwc"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return auth.NewService(dbh, "test-secret")
}

func TestCreateAccountAndVerify(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "asha@school.edu", "hunter22")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.VerifyCredential(ctx, "asha@school.edu", "hunter22")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != uid {
		t.Fatalf("verify uid = %q, want %q", got, uid)
	}

	if _, err := s.VerifyCredential(ctx, "asha@school.edu", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := s.VerifyCredential(ctx, "nobody@school.edu", "x"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	if _, err := s.CreateAccount(ctx, "dup@school.edu", "pw123456"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccount(ctx, "dup@school.edu", "other123"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("duplicate create: %v", err)
	}
}

func TestReauthenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "b@school.edu", "pw123456")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Reauthenticate(ctx, uid, "pw123456"); err != nil {
		t.Fatalf("reauth: %v", err)
	}
	if err := s.Reauthenticate(ctx, uid, "bad"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("bad reauth: %v", err)
	}
	if err := s.Reauthenticate(ctx, "missing-uid", "pw"); !errors.Is(err, auth.ErrAccountNotFound) {
		t.Fatalf("missing account: %v", err)
	}
}

func TestResetTokenFlow(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "c@school.edu", "oldpass1")
	if err != nil {
		t.Fatal(err)
	}
	token, err := s.MakeResetToken(ctx, uid)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	if err := s.ResetPassword(ctx, uid, token, "newpass1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := s.VerifyCredential(ctx, "c@school.edu", "newpass1"); err != nil {
		t.Fatalf("verify new password: %v", err)
	}

	// token is bound to the old hash, so it cannot be replayed
	if err := s.ResetPassword(ctx, uid, token, "again123"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("replayed token: %v", err)
	}
}

func TestResetTokenExpiry(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "d@school.edu", "pw123456")
	if err != nil {
		t.Fatal(err)
	}
	token, err := s.MakeResetToken(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}

	orig := auth.NowFunc
	auth.NowFunc = func() time.Time { return orig().Add(4 * 24 * time.Hour) }
	defer func() { auth.NowFunc = orig }()

	if err := s.ResetPassword(ctx, uid, token, "newpass1"); !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestUIDByEmail(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	uid, err := s.CreateAccount(ctx, "e@school.edu", "pw123456")
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.UIDByEmail(ctx, "e@school.edu")
	if err != nil || got != uid {
		t.Fatalf("uid lookup: %q %v", got, err)
	}
	if _, err := s.UIDByEmail(ctx, "missing@school.edu"); !errors.Is(err, auth.ErrAccountNotFound) {
		t.Fatalf("missing email: %v", err)
	}
}
