package handler

import "wb_slots/internal/worker"

type Handler struct {
	scanner *worker.SlotScanner
}

func New(scanner *worker.SlotScanner) *Handler {
	return &Handler{scanner: scanner}
}
