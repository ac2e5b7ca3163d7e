package notify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DefaultTelegramTimeout bounds a single Bot API request.
const DefaultTelegramTimeout = 30 * time.Second

// Sender is the part of *tgbotapi.BotAPI used here.
//
//go:generate mockgen -package=notify_test -destination=mock_sender_test.go -source=telegram.go Sender
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts HTML messages to a channel or chat through the Bot API.
type Telegram struct {
	bot     Sender
	api     *tgbotapi.BotAPI
	channel string
}

// TelegramOption configures the Bot API client built by NewTelegram.
type TelegramOption func(*tgbotapi.BotAPI)

// WithAPIEndpoint overrides the Bot API URL template ("…/bot%s/%s").
func WithAPIEndpoint(endpoint string) TelegramOption {
	return func(b *tgbotapi.BotAPI) { b.SetAPIEndpoint(endpoint) }
}

// WithBotHTTPClient sets the HTTP client used for Bot API calls.
func WithBotHTTPClient(c tgbotapi.HTTPClient) TelegramOption {
	return func(b *tgbotapi.BotAPI) {
		if c != nil {
			b.Client = c
		}
	}
}

// NewTelegram returns a notifier for channel, which is either "@username" or
// a numeric chat id. No request is made here: a missing token is the only
// error, and an unreachable or rejecting API surfaces from Send.
func NewTelegram(token, channel string, opts ...TelegramOption) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram: missing bot token")
	}
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: DefaultTelegramTimeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(tgbotapi.APIEndpoint)
	for _, opt := range opts {
		opt(api)
	}
	t := NewTelegramWithSender(api, channel)
	t.api = api
	return t, nil
}

// NewTelegramWithSender wraps an existing sender.
func NewTelegramWithSender(bot Sender, channel string) *Telegram {
	return &Telegram{bot: bot, channel: channel}
}

// Identify asks the Bot API which bot the token belongs to and returns its
// username. It is informational; Send does not depend on it.
func (t *Telegram) Identify() (string, error) {
	if t.api == nil {
		return "", errors.New("telegram: sender has no bot api")
	}
	me, err := t.api.GetMe()
	if err != nil {
		return "", err
	}
	t.api.Self = me
	return me.UserName, nil
}

// Send posts message as HTML. ctx is accepted for the Notifier contract; the
// Bot API client bounds the call with its own HTTP timeout.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Channel: t.channel, Err: err}
	}
	if t.channel == "" {
		return &DeliveryError{Channel: t.channel, Err: errors.New("no channel configured")}
	}

	msg := t.message(message)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return &DeliveryError{Channel: t.channel, Err: err}
	}
	return nil
}

func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	if !strings.HasPrefix(t.channel, "@") {
		if id, err := strconv.ParseInt(t.channel, 10, 64); err == nil {
			return tgbotapi.NewMessage(id, text)
		}
	}
	return tgbotapi.NewMessageToChannel(t.channel, text)
}
