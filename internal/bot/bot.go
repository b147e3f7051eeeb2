package bot

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcoot/mcregbot/internal/model"
)

// API is the subset of *tgbotapi.BotAPI the bot uses
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot long-polls Telegram and answers each command in its own goroutine
type Bot struct {
	api        API
	dispatcher *Dispatcher
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewTelegramAPI connects to Telegram with token
func NewTelegramAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// New creates a new Bot
func New(api API, dispatcher *Dispatcher, logger *slog.Logger) *Bot {
	return &Bot{
		api:        api,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run receives updates until ctx is cancelled, then waits for in-flight
// handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	// Handlers outlive shutdown so accepted commands complete
	handlerCtx := context.WithoutCancel(ctx)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopping, waiting for in-flight commands")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleMessage(handlerCtx, msg)
			}()
		}
	}
}

// HandleMessage answers a single command message
func (b *Bot) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	identity := model.Identity(strconv.FormatInt(msg.From.ID, 10))
	text := b.dispatcher.Handle(ctx, identity, msg.Command(), msg.CommandArguments())
	if text == "" {
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Warn("send reply failed",
			slog.String("identity", string(identity)),
			slog.String("command", msg.Command()),
			slog.String("error", err.Error()),
		)
	}
}
