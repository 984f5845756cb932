package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMaxRunes keeps each message under the Bot API's 4096 character limit.
const telegramMaxRunes = 4000

// Telegram pushes through a bot. Recipients are numeric chat IDs or @channel names.
type Telegram struct {
	token    string
	endpoint string
	client   *http.Client
}

func NewTelegram(token string, timeout time.Duration) *Telegram {
	return &Telegram{
		token:    token,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *Telegram) Deliver(ctx context.Context, title, body string, recipients []string) []Outcome {
	outcomes := make([]Outcome, 0, len(recipients))

	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		for _, chat := range recipients {
			outcomes = append(outcomes, record("telegram", Outcome{Key: chat, Detail: fmt.Sprintf("bot init: %v", err)}))
		}
		return outcomes
	}

	chunks := splitRunes(title+"\n\n"+body, telegramMaxRunes)
	for _, chat := range recipients {
		o := Outcome{Key: chat}
		if err := sendChunks(ctx, bot, chat, chunks); err != nil {
			o.Detail = err.Error()
		} else {
			o.Success = true
			o.Detail = fmt.Sprintf("ok (%d message(s))", len(chunks))
		}
		outcomes = append(outcomes, record("telegram", o))
	}
	return outcomes
}

func sendChunks(ctx context.Context, bot *tgbotapi.BotAPI, chat string, chunks []string) error {
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := newMessage(chat, chunk)
		if err != nil {
			return err
		}
		msg.DisableWebPagePreview = true
		if _, err := bot.Send(msg); err != nil {
			return fmt.Errorf("part %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

func newMessage(chat, text string) (tgbotapi.MessageConfig, error) {
	if strings.HasPrefix(chat, "@") {
		return tgbotapi.NewMessageToChannel(chat, text), nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("invalid chat id %q", chat)
	}
	return tgbotapi.NewMessage(id, text), nil
}

// splitRunes cuts s into pieces of at most max runes, preferring line breaks.
func splitRunes(s string, max int) []string {
	r := []rune(s)
	var out []string
	for len(r) > max {
		cut := max
		for i := max; i > max/2; i-- {
			if r[i-1] == '\n' {
				cut = i
				break
			}
		}
		out = append(out, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 || len(out) == 0 {
		out = append(out, string(r))
	}
	return out
}
