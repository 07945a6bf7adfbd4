package logger

import (
	"go.uber.org/zap"
)

// New builds the production logger shared by every component. Callers own
// the returned logger and should defer Sync on shutdown.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
