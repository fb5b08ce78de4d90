// Package logging builds the logrus logger used by the serialport command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

// Options select level, format and destination of log output.
type Options struct {
	// Level is a logrus level name ("debug", "info", ...) or its number,
	// 0 (panic) to 6 (trace). Empty means "warn".
	Level string
	// Format is "text" (default) or "json".
	Format string
	// Output defaults to os.Stderr so logs never mix with received data.
	Output io.Writer
}

// ParseLevel accepts both names and the numeric levels 0..6.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.WarnLevel, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(logrus.PanicLevel) || n > int(logrus.TraceLevel) {
			return 0, fmt.Errorf("log level %d out of range 0-6", n)
		}
		return logrus.Level(n), nil
	}
	return logrus.ParseLevel(strings.ToLower(s))
}

// New returns an entry tagged with prefix, ready to be passed to
// serialport.WithLogger.
func New(prefix string, opts Options) (*logrus.Entry, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		f := new(prefixed.TextFormatter)
		f.TimestampFormat = "2006-01-02 15:04:05.000"
		f.FullTimestamp = true
		logger.SetFormatter(f)
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
	}

	return logger.WithField("prefix", prefix), nil
}
