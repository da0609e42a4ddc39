package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	AuthHMACSecret  string
	EnableLocalAuth bool

	// Display settings for the results data views. DateFormat and
	// TimeFormat are Go time layouts; GMTOffset is the site's offset
	// from UTC in hours (fractional values allowed).
	DateFormat string
	TimeFormat string
	GMTOffset  float64

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		PublicURL:       os.Getenv("PUBLIC_URL"),
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
		DateFormat:      envOr("DATE_FORMAT", "2006-01-02"),
		TimeFormat:      envOr("TIME_FORMAT", "15:04:05"),
		GMTOffset:       envFloat("GMT_OFFSET", 0),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// DateTimeLayout is the combined layout both timestamp columns use.
func (c Config) DateTimeLayout() string {
	return c.DateFormat + " " + c.TimeFormat
}

func (c Config) TZOffsetSeconds() int64 {
	return int64(c.GMTOffset * 3600)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return v
	}
	return def
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
