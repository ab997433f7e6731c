package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"wb_slots/internal/config"
	"wb_slots/internal/transport/bot/handler"
	"wb_slots/internal/worker"
	"wb_slots/pkg/logx"
)

// Bot serves subscriber commands over long polling. The telego client is
// shared with the notifier, so there is a single getUpdates consumer.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler
}

func New(
	cfg config.Bot,
	client *telego.Bot,
	scanner *worker.SlotScanner,
) (*Bot, error) {
	updates, err := client.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(client, updates)
	if err != nil {
		return nil, fmt.Errorf("create bot handler: %w", err)
	}

	handler.New(scanner).RegisterRoutes(botHandler, cfg.AdminID)

	return &Bot{
		bot:        client,
		botHandler: botHandler,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler start", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("bot handler stop", logx.Error(err))
	}

	return ctx.Err()
}
