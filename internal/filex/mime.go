package filex

import (
	"net/url"
	"path"
	"strings"
)

var mimeByExt = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"txt":  "text/plain",
}

// Ext returns the lower-cased extension of p without the dot, or "".
// p may be a local path or a URL; for a URL only its path is looked at.
func Ext(p string) string {
	if u, err := url.Parse(p); err == nil && u.Host != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// MimeType maps the extension of p to a MIME type. Unknown extensions yield
// fallback.
func MimeType(p, fallback string) string {
	if m, ok := mimeByExt[Ext(p)]; ok {
		return m
	}
	return fallback
}
