// Package config loads runtime configuration for the docshelf CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then DOCSHELF_* environment
//     variables (see parseEnv).
//  3. Optional config file (see parseFile) selected via flags: -c or -config.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the document API
//	-d string     path of the local SQLite database
//	-o string     directory downloaded documents are saved to
//	-debounce d   quiet period before a search is sent (e.g. 500ms)
//	-t d          timeout of a single API request (e.g. 30s)
//	-l string     log level: debug, info, warn, error
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "500ms"
// or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://bk-sharing-app.fly.dev",
//	  "database_path": "docshelf.db",
//	  "download_dir": "downloads",
//	  "search_debounce": "500ms",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "region": "us-east-1"}
//	}
package config
