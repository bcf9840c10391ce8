package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// NowFunc is mockable in tests.
	NowFunc = time.Now

	resetTokenTTL = 3 * 24 * time.Hour
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// tokenGen mints password-reset tokens of the form <ts-b32>-<hmac-hex>. The
// MAC covers the uid, timestamp and current password hash, so changing the
// password invalidates outstanding tokens.
type tokenGen struct {
	secret []byte
}

func newTokenGen(secret string) *tokenGen {
	return &tokenGen{secret: []byte(secret)}
}

func (g *tokenGen) make(uid, passwordHash string) string {
	ts := NowFunc().Unix()
	return g.makeWithTimestamp(uid, passwordHash, ts)
}

func (g *tokenGen) makeWithTimestamp(uid, passwordHash string, ts int64) string {
	tsB32 := b32.EncodeToString([]byte(strconv.FormatInt(ts, 10)))
	return tsB32 + "-" + g.sign(uid, passwordHash, ts)
}

func (g *tokenGen) verify(uid, passwordHash, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}
	tsBytes, err := b32.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.ParseInt(string(tsBytes), 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	expect := g.makeWithTimestamp(uid, passwordHash, ts)
	if subtle.ConstantTimeCompare([]byte(expect), []byte(token)) != 1 {
		return ErrInvalidToken
	}
	if NowFunc().Sub(time.Unix(ts, 0)) > resetTokenTTL {
		return ErrTokenExpired
	}
	return nil
}

func (g *tokenGen) sign(uid, passwordHash string, ts int64) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(uid))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))
}
