package worker

import "wb_slots/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
