package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	tu "github.com/mymmrac/telego/telegoutil"

	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/errcodes"
	"wb_slots/pkg/logx"
)

// TelegramBot delivers slot alerts to subscribers. Sends are retried a
// bounded number of times; a chat that blocked the bot is reported with
// a dedicated code so the caller can stop retrying that recipient.
type TelegramBot struct {
	bot      *telego.Bot
	attempts int
	backoff  time.Duration
}

func NewTelegramBot(token string, attempts int, backoff time.Duration) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	if attempts < 1 {
		attempts = 1
	}

	return &TelegramBot{
		bot:      bot,
		attempts: attempts,
		backoff:  backoff,
	}, nil
}

// Bot exposes the underlying client for the command transport.
func (b *TelegramBot) Bot() *telego.Bot {
	return b.bot
}

func (b *TelegramBot) SendSlotAlert(ctx context.Context, alert entity.SlotAlert) error {
	slot := alert.Slot
	sub := alert.Subscription

	warehouse := slot.WarehouseName
	if warehouse == "" {
		warehouse = fmt.Sprintf("#%d", slot.WarehouseID)
	}

	boxType := slot.BoxTypeName
	if boxType == "" {
		boxType = "—"
	}

	unload := "no"
	if slot.AllowUnload {
		unload = "yes"
	}

	text := fmt.Sprintf(
		"📦 <b>SLOT AVAILABLE</b>\n\n"+
			"🏬 <b>Warehouse:</b> %s\n"+
			"📅 <b>Date:</b> %s\n"+
			"💸 <b>Coefficient:</b> x%d\n"+
			"📦 <b>Box type:</b> %s\n"+
			"🚚 <b>Unloading:</b> %s\n\n"+
			"🔖 Barcode %s, %d pcs",
		warehouse,
		slot.Date.Format("02.01.2006"),
		slot.Coefficient,
		boxType,
		unload,
		sub.Barcode,
		sub.Quantity,
	)

	msg := tu.Message(tu.ID(sub.OwnerChatID), text).WithParseMode(telego.ModeHTML)

	return b.send(ctx, msg)
}

// SendText sends a plain message, used for startup checks and cycle
// summaries to the admin chat.
func (b *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	return b.send(ctx, tu.Message(tu.ID(chatID), text))
}

func (b *TelegramBot) send(ctx context.Context, msg *telego.SendMessageParams) error {
	var lastErr error

	for attempt := 1; attempt <= b.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.backoff):
			}
		}

		_, err := b.bot.SendMessage(ctx, msg)
		if err == nil {
			return nil
		}

		if blocked(err) {
			return domain.WrapError(err, errcodes.RecipientBlocked, "send message")
		}

		lastErr = err
		logger(ctx).Warn("send message failed",
			"attempt", attempt,
			"chat_id", msg.ChatID.ID,
			logx.Error(err),
		)
	}

	return domain.WrapError(lastErr, errcodes.NotificationFailed, "send message")
}

// blocked reports whether the API refused the chat outright: the user
// blocked the bot, deleted the account or the chat never existed.
func blocked(err error) bool {
	var apiErr *telegoapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.ErrorCode == 403 || apiErr.ErrorCode == 400
}
