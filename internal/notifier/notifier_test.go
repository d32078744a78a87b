package notifier

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

func TestChunk(t *testing.T) {
	assert.Nil(t, Chunk("", 10))
	assert.Equal(t, []string{"short"}, Chunk("short", 10))

	// cut after the last newline inside the window
	assert.Equal(t, []string{"aaa\nbbb", "cc"}, Chunk("aaa\nbbb\ncc", 8))

	// no newline: hard cut
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Chunk("abcdefghij", 4))

	// limit counts characters, not bytes
	parts := Chunk(strings.Repeat("ố", 7), 3)
	assert.Equal(t, []string{"ốốố", "ốốố", "ố"}, parts)
}

func TestChunkLeadingNewline(t *testing.T) {
	parts := Chunk("\nabcdef", 3)
	assert.Equal(t, []string{"\nab", "cde", "f"}, parts)
}

func TestTelegramSend(t *testing.T) {
	var mu sync.Mutex
	var texts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "true", r.PostForm.Get("disable_web_page_preview"))

		mu.Lock()
		texts = append(texts, r.PostForm.Get("text"))
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	httpClient := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	sink := NewTelegram(httpClient, logger.Nop(), config.TelegramConfig{
		BotToken: "TOKEN", ChatID: "42", BaseURL: srv.URL, ChunkSize: 100,
	})

	report := strings.Repeat("line of report text\n", 8)
	assert.True(t, sink.Send(context.Background(), report))
	assert.Len(t, texts, 2)
	assert.Equal(t, report, strings.Join(texts, "\n"))
}

func TestTelegramSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	httpClient := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	sink := NewTelegram(httpClient, logger.Nop(), config.TelegramConfig{BotToken: "T", ChatID: "1", BaseURL: srv.URL})

	assert.False(t, sink.Send(context.Background(), "hello"))
	assert.False(t, sink.Send(context.Background(), ""))
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, NewConsole(&buf).Send(context.Background(), "preview body"))
	assert.Contains(t, buf.String(), "preview body")
}

func TestNewPicksSink(t *testing.T) {
	httpClient := httputil.New(&config.Config{}, logger.Nop())

	_, isConsole := New(&config.Config{}, httpClient, logger.Nop()).(*Console)
	assert.True(t, isConsole)

	cfg := &config.Config{Telegram: config.TelegramConfig{BotToken: "t", ChatID: "c"}}
	_, isTelegram := New(cfg, httpClient, logger.Nop()).(*Telegram)
	assert.True(t, isTelegram)
}
