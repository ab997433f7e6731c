package bot

import "wb_slots/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
