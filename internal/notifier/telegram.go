package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// Telegram sends reports through the Bot API sendMessage method
// ⭐ SSOT: Telegram 전송은 여기서만
type Telegram struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	token      string
	chatID     string
	chunkSize  int
}

// NewTelegram creates a Telegram sink
func NewTelegram(httpClient *httputil.Client, log *logger.Logger, cfg config.TelegramConfig) *Telegram {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Telegram{
		httpClient: httpClient,
		logger:     log.WithField("module", "telegram"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
		chunkSize:  chunkSize,
	}
}

// Send posts every chunk in order; the result is false when any chunk fails
func (t *Telegram) Send(ctx context.Context, text string) bool {
	chunks := Chunk(text, t.chunkSize)
	if len(chunks) == 0 {
		t.logger.Warn("Empty report, nothing sent")
		return false
	}

	ok := true
	for i, part := range chunks {
		if err := t.sendMessage(ctx, part); err != nil {
			t.logger.WithError(err).WithFields(map[string]interface{}{
				"chunk": i + 1,
				"total": len(chunks),
			}).Error("Telegram send failed")
			ok = false
			continue
		}
		t.logger.WithFields(map[string]interface{}{
			"chunk": i + 1,
			"total": len(chunks),
		}).Info("Telegram chunk sent")
	}
	return ok
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")

	resp, err := t.httpClient.PostForm(ctx, endpoint, form)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
