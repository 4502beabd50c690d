package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "DOCSHELF_"

// parseEnv overlays Config with DOCSHELF_* environment variables. A .env file
// in the working directory is loaded first if it exists; variables already set
// in the environment win over the file.
//
// Panics on malformed durations.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.ServerBaseURL, "SERVER_BASE_URL")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.DownloadDir, "DOWNLOAD_DIR")
	setDuration(&cfg.SearchDebounce, "SEARCH_DEBOUNCE")
	setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.S3Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3Region, "S3_REGION")
	setString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3SecretKey, "S3_SECRET_KEY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
