// Package buildinfo holds version data stamped into the binary at build time.
package buildinfo

import (
	"fmt"
	"io"
)

// Set via -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/docshelf/internal/buildinfo.Version=v1.2.0"
var (
	Version    string
	BuildTime  string
	CommitHash string
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes the version banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(BuildTime))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(CommitHash))
}
