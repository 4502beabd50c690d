package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/docshelf/internal/flagx"
	"github.com/dmitrijs2005/docshelf/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. It
// relies on timex.Duration so files can specify intervals either as strings
// like "500ms" or as integer nanoseconds. Empty fields leave the current value
// alone.
type FileConfig struct {
	ServerBaseURL  string         `json:"server_base_url" yaml:"server_base_url"`
	DatabasePath   string         `json:"database_path" yaml:"database_path"`
	DownloadDir    string         `json:"download_dir" yaml:"download_dir"`
	SearchDebounce timex.Duration `json:"search_debounce" yaml:"search_debounce"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	S3             struct {
		Endpoint  string `json:"endpoint" yaml:"endpoint"`
		Region    string `json:"region" yaml:"region"`
		AccessKey string `json:"access_key" yaml:"access_key"`
		SecretKey string `json:"secret_key" yaml:"secret_key"`
	} `json:"s3" yaml:"s3"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config in args. Without such a flag nothing happens.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	overlay(&cfg.ServerBaseURL, fc.ServerBaseURL)
	overlay(&cfg.DatabasePath, fc.DatabasePath)
	overlay(&cfg.DownloadDir, fc.DownloadDir)
	overlay(&cfg.LogLevel, fc.LogLevel)
	overlay(&cfg.S3Endpoint, fc.S3.Endpoint)
	overlay(&cfg.S3Region, fc.S3.Region)
	overlay(&cfg.S3AccessKey, fc.S3.AccessKey)
	overlay(&cfg.S3SecretKey, fc.S3.SecretKey)

	if fc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = fc.SearchDebounce.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
