package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"wb_slots/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// /start is open to anyone: a subscriber needs it to learn the chat ID
	// to put into the spreadsheet.
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))

	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
}
