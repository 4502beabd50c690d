package models

import (
	"strconv"
	"strings"
)

// FormatFileSize renders a byte count the way document lists show it:
// "0 B", "512 B", "2.5 KB", "50 MB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + " " + units[i]
}

// Category is a coarse document kind derived from a MIME type or extension.
type Category struct {
	Name  string
	Color string
}

var (
	categoryPDF    = Category{Name: "PDF", Color: "#E74C3C"}
	categoryWord   = Category{Name: "Word", Color: "#2B579A"}
	categoryExcel  = Category{Name: "Excel", Color: "#217346"}
	categorySlides = Category{Name: "PowerPoint", Color: "#D24726"}
	categoryImage  = Category{Name: "Image", Color: "#8E44AD"}
	categoryText   = Category{Name: "Text", Color: "#7F8C8D"}
	categoryOther  = Category{Name: "File", Color: "#000080"}
)

// CategoryOf classifies fileType, which the backend sends either as a MIME
// type ("application/pdf") or as a bare extension ("pdf").
func CategoryOf(fileType string) Category {
	t := strings.ToLower(strings.TrimSpace(fileType))
	switch {
	case strings.Contains(t, "pdf"):
		return categoryPDF
	case strings.Contains(t, "word"), t == "doc", t == "docx", t == "application/msword":
		return categoryWord
	case strings.Contains(t, "sheet"), strings.Contains(t, "excel"), t == "xls", t == "xlsx":
		return categoryExcel
	case strings.Contains(t, "presentation"), strings.Contains(t, "powerpoint"), t == "ppt", t == "pptx":
		return categorySlides
	case strings.HasPrefix(t, "image/"), t == "jpg", t == "jpeg", t == "png":
		return categoryImage
	case strings.HasPrefix(t, "text/"), t == "txt":
		return categoryText
	default:
		return categoryOther
	}
}

// NewDocumentView derives the display fields for d.
func NewDocumentView(d Document) DocumentView {
	c := CategoryOf(d.FileType)
	return DocumentView{
		Document:  d,
		SizeLabel: FormatFileSize(d.FileSize),
		Category:  c.Name,
		Color:     c.Color,
	}
}
