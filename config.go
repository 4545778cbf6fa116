package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds the yt-dlp authentication material read from the
// environment once at startup. At most one mechanism ends up active;
// precedence is resolved in authArgs.
type AuthConfig struct {
	POToken        string
	CookiesFile    string
	CookiesBrowser string
}

// Config is the process-wide configuration. Built once in main and passed
// down explicitly; nothing reads the environment after startup.
type Config struct {
	Port        string
	Environment string
	CORSOrigin  string

	DownloadsDir string
	ScratchDir   string

	YtdlpPath       string
	InfoTimeout     time.Duration
	DownloadTimeout time.Duration

	// Rate Limiting
	RequestsPerSecond float64
	BurstSize         int

	// Redis (optional, video info cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	InfoCacheTTL  time.Duration

	Auth AuthConfig
}

func LoadConfig() *Config {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	return &Config{
		Port:        envString("PORT", "3000"),
		Environment: envString("NODE_ENV", "development"),
		CORSOrigin:  envString("CORS_ORIGIN", "*"),

		DownloadsDir: envString("DOWNLOADS_DIR", filepath.Join(workDir, "downloads")),
		ScratchDir:   envString("SCRATCH_DIR", filepath.Join(os.TempDir(), "ytgrab")),

		YtdlpPath:       envString("YTDLP_PATH", "yt-dlp"),
		InfoTimeout:     envDuration("INFO_TIMEOUT", 45*time.Second),
		DownloadTimeout: envDuration("DOWNLOAD_TIMEOUT", 10*time.Minute),

		RequestsPerSecond: envFloat("REQUESTS_PER_SECOND", 100),
		BurstSize:         envInt("BURST_SIZE", 200),

		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		InfoCacheTTL:  envDuration("INFO_CACHE_TTL", 15*time.Minute),

		Auth: AuthConfig{
			POToken:        strings.TrimSpace(os.Getenv("YT_DLP_PO_TOKEN")),
			CookiesFile:    strings.TrimSpace(os.Getenv("YT_DLP_COOKIES_FILE")),
			CookiesBrowser: strings.TrimSpace(os.Getenv("YT_DLP_COOKIES_BROWSER")),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
