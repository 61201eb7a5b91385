package testutil

import (
	"io"

	"github.com/dkovalev/sociable/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithOutput(0, io.Discard)
}
