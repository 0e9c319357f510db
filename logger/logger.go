package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process logger. It writes to stderr so console prompts on stdout stay readable.
var Log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the log level by name ("debug", "info", "warn", ...). Unknown names keep info.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warnf("unknown LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}
