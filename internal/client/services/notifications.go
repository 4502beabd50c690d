// Package services contains the application services of the docshelf client:
// authentication, account edits, documents and the local archive, theme, and
// user-visible notices.
package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

const maxNotices = 100

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n models.Notice)
}

// NotificationCenter prints notices as they arrive and keeps the most recent
// ones for the notifications screen.
type NotificationCenter struct {
	out    io.Writer
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	notices []models.Notice
}

func NewNotificationCenter(out io.Writer, logger logging.Logger) *NotificationCenter {
	if out == nil {
		out = io.Discard
	}
	return &NotificationCenter{
		out:    out,
		logger: logger.With("component", "notifications"),
		now:    time.Now,
	}
}

func (c *NotificationCenter) Notify(ctx context.Context, n models.Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}
	if n.Level == "" {
		n.Level = models.NoticeInfo
	}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	if len(c.notices) > maxNotices {
		c.notices = append([]models.Notice(nil), c.notices[len(c.notices)-maxNotices:]...)
	}
	c.mu.Unlock()

	if n.Level == models.NoticeError {
		c.logger.Warn(ctx, "notice", "title", n.Title, "message", n.Message)
		fmt.Fprintf(c.out, "[!] %s: %s\n", n.Title, n.Message)
		return
	}
	c.logger.Debug(ctx, "notice", "title", n.Title, "message", n.Message)
	fmt.Fprintf(c.out, "[i] %s: %s\n", n.Title, n.Message)
}

// List returns the kept notices, oldest first.
func (c *NotificationCenter) List() []models.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notice(nil), c.notices...)
}

func notifyError(ctx context.Context, n Notifier, title, msg string) {
	if n == nil {
		return
	}
	n.Notify(ctx, models.Notice{Level: models.NoticeError, Title: title, Message: msg})
}

func notifyInfo(ctx context.Context, n Notifier, title, msg string) {
	if n == nil {
		return
	}
	n.Notify(ctx, models.Notice{Level: models.NoticeInfo, Title: title, Message: msg})
}
