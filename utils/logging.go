package utils

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
)

const logHeader = `${time_rfc3339} ${level} [${prefix}] ${short_file}:${line}`

var logOutput io.Writer = os.Stdout

// SetLogOutput redirects every logger created afterwards.
func SetLogOutput(w io.Writer) {
	logOutput = w
}

func NewLogger(prefix string, debug bool) *log.Logger {
	logger := log.New(prefix)
	logger.SetHeader(logHeader)
	logger.SetOutput(logOutput)
	if debug {
		logger.SetLevel(log.DEBUG)
	} else {
		logger.SetLevel(log.INFO)
	}
	return logger
}
