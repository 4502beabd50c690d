package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the docshelf CLI.
//
// Fields:
//   - ServerBaseURL: scheme and host of the document API; "/api/v1" is added
//     by the API client.
//   - DatabasePath: SQLite file holding session, theme and archive.
//   - DownloadDir: where downloaded documents are written.
//   - SearchDebounce: input quiet period before a search request is sent.
//   - RequestTimeout: upper bound for one HTTP request.
//   - LogLevel: minimum level written to stderr.
//   - S3*: S3-compatible store used for s3:// document links.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	DownloadDir    string
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	LogLevel       string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "https://bk-sharing-app.fly.dev"
	c.DatabasePath = "docshelf.db"
	c.DownloadDir = "downloads"
	c.SearchDebounce = 500 * time.Millisecond
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, the config file (if given) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
