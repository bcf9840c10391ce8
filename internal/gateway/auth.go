package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/classbridge/classbridge/internal/audit"
	"github.com/classbridge/classbridge/internal/mail"
	"github.com/classbridge/classbridge/internal/platform/auth"
)

// CurrentUser resolves the signed-in user once from the session state stream:
// subscribe, take the first event, unsubscribe. Returns nil when signed out.
func (g *Gateway) CurrentUser(ctx context.Context) (*auth.User, error) {
	ch, cancel := g.session.Subscribe(ctx)
	defer cancel()
	select {
	case u := <-ch:
		return u, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequireAuth watches the session state until ctx ends. Every signed-out
// event triggers the gateway's sign-out hook; every signed-in event invokes
// cb with the user.
func (g *Gateway) RequireAuth(ctx context.Context, cb func(auth.User)) {
	ch, _ := g.session.Subscribe(ctx)
	go func() {
		for u := range ch {
			if u == nil {
				g.onSignedOut()
				continue
			}
			cb(*u)
		}
	}()
}

// RegisterUser creates a credential, derives the roll number from the email
// local part and writes the matching profile document keyed by the new uid.
// The session is signed in as the new user.
func (g *Gateway) RegisterUser(ctx context.Context, email, password, name, role string) (auth.User, error) {
	if role == "" {
		role = "student"
	}
	uid, err := g.accounts.CreateAccount(ctx, email, password)
	if err != nil {
		return auth.User{}, err
	}
	rollNo := email
	if i := strings.Index(email, "@"); i >= 0 {
		rollNo = email[:i]
	}
	profile := map[string]any{
		"uid":    uid,
		"name":   name,
		"email":  email,
		"role":   role,
		"rollNo": rollNo,
	}
	if err := g.docs.Set(ctx, colUsers, uid, profile, false); err != nil {
		return auth.User{}, fmt.Errorf("write profile: %w", err)
	}
	u := auth.User{UID: uid, Email: email, Role: role}
	g.session.SignIn(u)
	g.recordEvent(ctx, audit.EventUserRegistered, uid, map[string]string{"email": email, "role": role})
	return u, nil
}

// SignIn verifies the credential and binds the session to the account.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (auth.User, error) {
	uid, err := g.accounts.VerifyCredential(ctx, email, password)
	if err != nil {
		return auth.User{}, err
	}
	role := "student"
	if p, err := g.UserProfile(ctx, uid); err == nil && p != nil && p.Role != "" {
		role = p.Role
	}
	u := auth.User{UID: uid, Email: email, Role: role}
	g.session.SignIn(u)
	return u, nil
}

func (g *Gateway) SignOut(context.Context) {
	g.session.SignOut()
}

// ForgotPassword issues a reset token for the account and mails it.
func (g *Gateway) ForgotPassword(ctx context.Context, email string) error {
	uid, err := g.accounts.UIDByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := g.accounts.MakeResetToken(ctx, uid)
	if err != nil {
		return err
	}
	return g.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use this token to reset your password.\n\nuid: %s\ntoken: %s\n", uid, token),
	})
}

// ResetPassword consumes a reset token.
func (g *Gateway) ResetPassword(ctx context.Context, uid, token, newPassword string) error {
	return g.accounts.ResetPassword(ctx, uid, token, newPassword)
}

// VerifyPassword re-authenticates the current session as a step-up check
// before sensitive operations.
func (g *Gateway) VerifyPassword(ctx context.Context, password string) error {
	u := g.session.Current()
	if u == nil {
		return ErrNotSignedIn
	}
	return g.accounts.Reauthenticate(ctx, u.UID, password)
}

// ReauthenticateUser is VerifyPassword for an explicit uid, for callers that
// carry identity outside the bound session (the HTTP layer).
func (g *Gateway) ReauthenticateUser(ctx context.Context, uid, password string) error {
	return g.accounts.Reauthenticate(ctx, uid, password)
}
