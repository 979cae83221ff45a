// Package config reads the kiosk's configuration from environment
// variables, with an optional .env file loaded first. Values fail soft to
// defaults; only genuinely unusable values (a bad card format, a bad
// identity policy) are rejected later, at wiring time.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Identity store and attendance files.
	DBPath    string // flat CSV identity store
	AttendDir string // per-day attendance files land here

	// Card and identity policy.
	CardFormat     string // "magstripe" | "numeric"
	IdentityPolicy string // "fullname" | "username"

	// Feedback.
	SoundDir string
	LogLevel string

	// Local event archive (optional; empty path disables it).
	ArchiveDBPath        string
	ArchiveRetentionDays int // 0 = keep forever
	PruneIntervalHours   int // how often the pruner runs (default 6)

	// Remote grading service (optional; missing URL or token disables it).
	RemoteURL        string
	RemoteToken      string
	RemoteCourse     string
	RemoteAssignment string
}

// FromEnv loads ./.env if present, then reads the environment.
func FromEnv() Config {
	// Best-effort: a missing .env just means plain env vars.
	_ = godotenv.Load()

	return Config{
		DBPath:    getenvDefault("CARDREAD_DB_PATH", "./data/swipe-db.csv"),
		AttendDir: getenvDefault("CARDREAD_ATTEND_DIR", "./data"),

		CardFormat:     strings.ToLower(getenvDefault("CARDREAD_CARD_FORMAT", "magstripe")),
		IdentityPolicy: strings.ToLower(getenvDefault("CARDREAD_IDENTITY_POLICY", "fullname")),

		SoundDir: getenvDefault("CARDREAD_SOUND_DIR", "./sounds"),
		LogLevel: getenvDefault("CARDREAD_LOG_LEVEL", "info"),

		ArchiveDBPath:        os.Getenv("CARDREAD_ARCHIVE_DB_PATH"),
		ArchiveRetentionDays: getenvInt("CARDREAD_ARCHIVE_RETENTION_DAYS", 0),
		PruneIntervalHours:   getenvInt("CARDREAD_PRUNE_INTERVAL_HOURS", 6),

		RemoteURL:        os.Getenv("CARDREAD_REMOTE_URL"),
		RemoteToken:      os.Getenv("CARDREAD_REMOTE_TOKEN"),
		RemoteCourse:     os.Getenv("CARDREAD_REMOTE_COURSE"),
		RemoteAssignment: os.Getenv("CARDREAD_REMOTE_ASSIGNMENT"),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
