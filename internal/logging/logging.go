package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger = logrus.New()
	once   sync.Once
)

// InitLogger configures the process logger. Only the first call has effect.
func InitLogger(level, format string) {
	once.Do(func() {
		logger.SetOutput(os.Stdout)

		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logger.SetLevel(lvl)

		if format == "json" {
			logger.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	})
}

func GetLogger() *logrus.Logger {
	return logger
}

// MaxLoggedInput bounds how many runes of user input go into a log line.
const MaxLoggedInput = 200

// Truncate shortens user-supplied input before it is written to logs.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
