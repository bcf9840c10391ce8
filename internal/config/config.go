package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath  string
	BlobPublicURL string // base for download URLs; empty -> file:// URLs
	RTDBPath      string // bbolt file backing the realtime tree

	AuthSecret string

	MailDriver     string // console|sendgrid
	SendgridAPIKey string
	MailFrom       string

	CORSOrigins []string
}

func FromEnv() Config {
	pub := os.Getenv("PUBLIC_URL")
	return Config{
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: pub,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data/blobs"),
		BlobPublicURL: envOr("BLOB_PUBLIC_URL", ""),
		RTDBPath:      envOr("RTDB_PATH", "./data/realtime.db"),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		MailDriver:     envOr("MAIL_DRIVER", "console"),
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       envOr("MAIL_FROM", "no-reply@classbridge.local"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
