package models

import (
	"strconv"
	"strings"
	"time"
)

// Document is a document record as the backend returns it from listing and
// search endpoints. FilePath is the remote location of the file.
type Document struct {
	DocumentID         int64    `json:"documentId"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	FileType           string   `json:"fileType"`
	FilePath           string   `json:"filePath"`
	FileSize           int64    `json:"fileSize"`
	UploadedByID       int64    `json:"uploadedById"`
	UploadedByUsername string   `json:"uploadedByUsername"`
	CreatedAt          string   `json:"createdAt"`
	AverageRating      *float64 `json:"averageRating"`
	TotalRatings       *int64   `json:"totalRatings"`
}

// RatingLabel renders the average rating with one decimal, or "--" when unrated.
func (d Document) RatingLabel() string {
	if d.AverageRating == nil || *d.AverageRating == 0 {
		return "--"
	}
	return strconv.FormatFloat(*d.AverageRating, 'f', 1, 64)
}

// DocumentView is a Document prepared for listing.
type DocumentView struct {
	Document
	SizeLabel string
	Category  string
	Color     string
}

// ArchivedDocument is a document downloaded to local storage. LocalURI is the
// device path of the file; IsShared is true when someone other than the user
// who archived it uploaded it.
type ArchivedDocument struct {
	Document
	LocalURI string    `json:"localUri"`
	SavedAt  time.Time `json:"savedAt"`
	IsShared bool      `json:"isShared"`
}

// OwnershipTab selects which part of the archive is shown.
type OwnershipTab string

const (
	TabMine   OwnershipTab = "mine"
	TabShared OwnershipTab = "shared"
	TabAll    OwnershipTab = "all"
)

// ParseOwnershipTab accepts the tab names used by the CLI; anything else is false.
func ParseOwnershipTab(s string) (OwnershipTab, bool) {
	switch OwnershipTab(strings.ToLower(s)) {
	case TabMine:
		return TabMine, true
	case TabShared:
		return TabShared, true
	case TabAll:
		return TabAll, true
	}
	return "", false
}

// Upload describes a local file to publish as a new document.
type Upload struct {
	Title       string
	Description string
	UserID      int64
	FilePath    string
	FileName    string
	MimeType    string
}
