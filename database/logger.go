package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/tech-arch1tect/cadence/services/logging"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// zapWriter feeds gorm's log lines into the application logger.
type zapWriter struct {
	logger *logging.Service
}

func (w zapWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(logger *logging.Service) gormlogger.Interface {
	return gormlogger.New(zapWriter{logger: logger.Named("gorm")}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
