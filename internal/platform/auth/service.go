package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// User is the authenticated identity carried by sessions and tokens.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Service owns the credential registry. Profile data lives in the document
// store; this table holds only what is needed to authenticate.
type Service struct {
	db     *sql.DB
	tokens *tokenGen
}

func NewService(db *sql.DB, secret string) *Service {
	return &Service{db: db, tokens: newTokenGen(secret)}
}

// CreateAccount registers an email/password credential and returns the new uid.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	uid := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO accounts (id,email,password_hash,created_at) VALUES ($1,$2,$3,$4)`,
		uid, email, string(hash), time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return uid, nil
}

// VerifyCredential checks an email/password pair and returns the account uid.
func (s *Service) VerifyCredential(ctx context.Context, email, password string) (string, error) {
	var uid, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id,password_hash FROM accounts WHERE email=$1`, email).Scan(&uid, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return uid, nil
}

// Reauthenticate re-checks the password of an existing account, as a step-up
// guard before sensitive operations.
func (s *Service) Reauthenticate(ctx context.Context, uid, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE id=$1`, uid).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// UIDByEmail resolves an account id, or ErrAccountNotFound.
func (s *Service) UIDByEmail(ctx context.Context, email string) (string, error) {
	var uid string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE email=$1`, email).Scan(&uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrAccountNotFound
		}
		return "", err
	}
	return uid, nil
}

// MakeResetToken issues a password-reset token bound to the account's current
// password hash, so it is invalidated by use.
func (s *Service) MakeResetToken(ctx context.Context, uid string) (string, error) {
	hash, err := s.passwordHash(ctx, uid)
	if err != nil {
		return "", err
	}
	return s.tokens.make(uid, hash), nil
}

// ResetPassword consumes a reset token and installs the new password.
func (s *Service) ResetPassword(ctx context.Context, uid, token, newPassword string) error {
	hash, err := s.passwordHash(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.tokens.verify(uid, hash, token); err != nil {
		return err
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash=$1 WHERE id=$2`, string(newHash), uid)
	return err
}

func (s *Service) passwordHash(ctx context.Context, uid string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE id=$1`, uid).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("load account: %w", err)
	}
	return hash, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
