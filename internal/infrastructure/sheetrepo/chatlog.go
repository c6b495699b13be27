package sheetrepo

import (
	"context"
	"time"

	"github.com/universitas/manuales-backend/internal/spreadsheet"
)

// ChatLog appends assistant exchanges to a transcript sheet:
// (Timestamp, UserName, UserMessage, BotResponse).
type ChatLog struct {
	store spreadsheet.Store
	sheet string

	now func() time.Time
}

func NewChatLog(store spreadsheet.Store, sheet string) *ChatLog {
	return &ChatLog{store: store, sheet: sheet, now: time.Now}
}

// WithClock overrides the timestamp source; used by tests.
func (c *ChatLog) WithClock(now func() time.Time) *ChatLog {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *ChatLog) Append(ctx context.Context, userName, userMessage, botResponse string) error {
	return c.store.AppendRow(ctx, c.sheet, []string{
		c.now().UTC().Format(time.RFC3339),
		userName,
		userMessage,
		botResponse,
	})
}
