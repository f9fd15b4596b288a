package migrate

import "insightbff/internal/platform/logger"

func nopLog() logger.Logger { return *logger.Nop() }
