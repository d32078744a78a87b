package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// DefaultChunkSize keeps each message well under Telegram's 4096 character cap
const DefaultChunkSize = 3500

// Sink delivers a finished report. Send reports whether every part was delivered.
type Sink interface {
	Send(ctx context.Context, text string) bool
}

// New returns a Telegram sink when credentials are configured and a console preview otherwise
func New(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) Sink {
	if !cfg.Telegram.Enabled() {
		log.Warn("BOT_TOKEN/CHAT_ID missing, printing report preview instead of sending")
		return NewConsole(os.Stdout)
	}
	return NewTelegram(httpClient, log, cfg.Telegram)
}

// Console prints the report; it never counts as delivered
type Console struct {
	out io.Writer
}

// NewConsole creates a console sink writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Send prints the preview and returns false
func (c *Console) Send(_ context.Context, text string) bool {
	fmt.Fprintln(c.out, "=== Report preview ===")
	fmt.Fprintln(c.out, text)
	return false
}

// Chunk splits text into parts of at most limit characters, cutting after the
// last newline inside the window or hard at limit when there is none.
func Chunk(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultChunkSize
	}

	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := lastNewline(runes[:limit])
		if cut <= 0 {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
			continue
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut+1:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
