package application

import "wb_slots/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
