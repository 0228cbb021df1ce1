package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/zap"

	"trojan-bot/internal/models"
	"trojan-bot/internal/referral"
)

// Registry is the part of referral.Service the bot talks to.
type Registry interface {
	Register(id, displayName, referralCode string) (models.User, error)
	GetUser(id string) (models.User, bool)
	RewardsView(id string) (referral.RewardsView, bool)
}

type Bot struct {
	Instance *telego.Bot
	Registry Registry
	Throttle Throttler
	Logger   *zap.Logger
}

func NewBot(token string, registry Registry, throttle Throttler, logger *zap.Logger) (*Bot, error) {
	tgBot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if throttle == nil {
		throttle = noThrottle{}
	}

	return &Bot{
		Instance: tgBot,
		Registry: registry,
		Throttle: throttle,
		Logger:   logger,
	}, nil
}

const drainTimeout = 10 * time.Second

// updateHandler is the lifecycle surface of *th.BotHandler.
type updateHandler interface {
	Start() error
	StopWithContext(ctx context.Context) error
}

// Start polls for updates until ctx is cancelled. It returns only after the
// handlers still running have finished, so their registrations are recorded
// before the caller shuts down.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.Instance.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.Instance, updates)
	if err != nil {
		return fmt.Errorf("failed to create update handler: %w", err)
	}

	handler.Handle(b.handleStart, th.CommandEqual("start"))
	handler.Handle(b.handleRewards, th.CallbackDataEqual(ActionRewards))
	handler.Handle(b.handleRefresh, th.CallbackDataEqual(ActionRefresh))
	handler.Handle(b.handleBackToMain, th.CallbackDataEqual(ActionBackToMain))
	handler.Handle(b.handleAction, th.AnyCallbackQuery())

	b.Logger.Info("bot started, polling for updates")
	return runHandler(ctx, handler, drainTimeout)
}

func runHandler(ctx context.Context, h updateHandler, timeout time.Duration) error {
	started := make(chan error, 1)
	go func() { started <- h.Start() }()

	var startErr error
	select {
	case <-ctx.Done():
	case startErr = <-started:
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := h.StopWithContext(stopCtx); err != nil {
		return errors.Join(startErr, fmt.Errorf("failed to drain handlers: %w", err))
	}
	return startErr
}

func (b *Bot) handleStart(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message.From == nil {
		return nil
	}
	telegramID := message.From.ID
	userID := strconv.FormatInt(telegramID, 10)

	user, err := b.Registry.Register(userID, DisplayName(message.From), StartArgs(message.Text))
	if err != nil {
		b.Logger.Error("failed to register user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		b.send(ctx, message.Chat.ID, Screen{Text: "Something went wrong, please try /start again later."})
		return nil
	}

	b.send(ctx, message.Chat.ID, MainMenu(user))
	return nil
}

func (b *Bot) handleRewards(ctx *th.Context, update telego.Update) error {
	callback := update.CallbackQuery
	userID := strconv.FormatInt(callback.From.ID, 10)

	view, ok := b.Registry.RewardsView(userID)
	if !ok {
		b.notRegistered(ctx, callback)
		return nil
	}

	b.send(ctx, callback.From.ID, RewardsScreen(view, time.Now()))
	b.answer(ctx, tu.CallbackQuery(callback.ID))
	return nil
}

func (b *Bot) handleRefresh(ctx *th.Context, update telego.Update) error {
	callback := update.CallbackQuery

	allowed, err := b.Throttle.Allow(ctx.Context(), ActionRefresh, callback.From.ID)
	if err != nil {
		// Fail open while Redis is unreachable.
		b.Logger.Warn("refresh throttle unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		b.answer(ctx, tu.CallbackQuery(callback.ID).WithText("Already up to date, try again in a few seconds."))
		return nil
	}
	return b.handleBackToMain(ctx, update)
}

func (b *Bot) handleBackToMain(ctx *th.Context, update telego.Update) error {
	callback := update.CallbackQuery
	user, ok := b.Registry.GetUser(strconv.FormatInt(callback.From.ID, 10))
	if !ok {
		b.notRegistered(ctx, callback)
		return nil
	}

	b.send(ctx, callback.From.ID, MainMenu(user))
	b.answer(ctx, tu.CallbackQuery(callback.ID))
	return nil
}

func (b *Bot) handleAction(ctx *th.Context, update telego.Update) error {
	callback := update.CallbackQuery
	user, ok := b.Registry.GetUser(strconv.FormatInt(callback.From.ID, 10))
	if !ok {
		b.notRegistered(ctx, callback)
		return nil
	}

	b.send(ctx, callback.From.ID, ScreenFor(callback.Data, user))
	b.answer(ctx, tu.CallbackQuery(callback.ID))
	return nil
}

func (b *Bot) notRegistered(ctx *th.Context, callback *telego.CallbackQuery) {
	b.send(ctx, callback.From.ID, Screen{Text: "User not found. Please restart the bot with /start"})
	b.answer(ctx, tu.CallbackQuery(callback.ID))
}

func (b *Bot) send(ctx *th.Context, chatID int64, s Screen) {
	msg := tu.Message(tu.ID(chatID), s.Text)
	if s.Markdown {
		msg = msg.WithParseMode(telego.ModeMarkdown)
	}
	if s.Keyboard != nil {
		msg = msg.WithReplyMarkup(s.Keyboard)
	}
	if _, err := ctx.Bot().SendMessage(ctx.Context(), msg); err != nil {
		b.Logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answer(ctx *th.Context, params *telego.AnswerCallbackQueryParams) {
	if err := ctx.Bot().AnswerCallbackQuery(ctx.Context(), params); err != nil {
		b.Logger.Debug("failed to answer callback", zap.Error(err))
	}
}
