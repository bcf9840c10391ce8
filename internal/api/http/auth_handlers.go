package http

import (
	"net/http"

	"github.com/classbridge/classbridge/internal/gateway"
	"github.com/classbridge/classbridge/internal/platform/auth"
	"github.com/classbridge/classbridge/internal/rbac"
)

// POST /auth/register {"email","password","name","role"?}
func RegisterHandler(g *gateway.Gateway, t *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=6"`
			Name     string `json:"name" validate:"required"`
			Role     string `json:"role" validate:"omitempty,oneof=student teacher"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		u, err := g.RegisterUser(r.Context(), req.Email, req.Password, req.Name, req.Role)
		if err != nil {
			fail(w, err)
			return
		}
		tok, err := t.Issue(u)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"uid": u.UID, "access_token": tok})
	}
}

// POST /auth/login {"email","password"}
func LoginHandler(g *gateway.Gateway, t *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		u, err := g.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			fail(w, err)
			return
		}
		tok, err := t.Issue(u)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"uid": u.UID, "access_token": tok})
	}
}

// POST /auth/forgot-password {"email"}
func ForgotPasswordHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		if err := g.ForgotPassword(r.Context(), req.Email); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "password reset link sent to " + req.Email})
	}
}

// POST /auth/reset-password {"uid","token","new_password"}
func ResetPasswordHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UID         string `json:"uid" validate:"required"`
			Token       string `json:"token" validate:"required"`
			NewPassword string `json:"new_password" validate:"required,min=6"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		if err := g.ResetPassword(r.Context(), req.UID, req.Token, req.NewPassword); err != nil {
			fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /auth/verify-password {"password"}. Step-up check for the signed-in
// subject before protected downloads.
func VerifyPasswordHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := rbac.SubjectFromContext(r.Context())
		if uid == "" {
			fail(w, gateway.ErrNotSignedIn)
			return
		}
		var req struct {
			Password string `json:"password" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		if err := g.ReauthenticateUser(r.Context(), uid, req.Password); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
	}
}
