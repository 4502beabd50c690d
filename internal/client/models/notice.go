package models

import "time"

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message shown to the user, the CLI counterpart of an alert.
type Notice struct {
	Level     NoticeLevel
	Title     string
	Message   string
	CreatedAt time.Time
}
