package handler

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	text := fmt.Sprintf(
		"👋 This bot sends supply slot alerts.\n\n"+
			"Your chat ID: <code>%d</code>\n"+
			"Put it into the <b>Chat ID</b> column of the subscriptions sheet "+
			"and alerts for your rows will arrive here.",
		msg.Chat.ID,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	summary, ok := h.scanner.LastCycle()
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, "⏳ No cycle has finished yet.")
	}

	text := fmt.Sprintf(
		"📊 <b>Last cycle</b>\n\n"+
			"🕑 <b>Finished:</b> %s (took %s)\n"+
			"📋 <b>Subscriptions:</b> %d\n"+
			"📦 <b>Slots in feed:</b> %d\n"+
			"🎯 <b>Matched:</b> %d\n"+
			"📨 <b>Notified:</b> %d\n"+
			"♻️ <b>Duplicates:</b> %d\n"+
			"⚠️ <b>Errors:</b> %d\n"+
			"🧹 <b>Pruned:</b> %d",
		summary.FinishedAt.Format(time.RFC3339),
		summary.Duration().Round(time.Millisecond),
		summary.Subscriptions,
		summary.SlotsSeen,
		summary.Matched,
		summary.Notified,
		summary.Duplicates,
		summary.Errors,
		summary.Pruned,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}
