package dungeon

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes human readable lines through zerolog's console writer.
type DefaultLogger struct {
	mu    sync.Mutex
	debug bool
	zl    zerolog.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}, prefix, debug)
}

// NewWriterLogger is NewDefaultLogger with an explicit sink.
func NewWriterLogger(w io.Writer, prefix string, debug bool) *DefaultLogger {
	ctx := zerolog.New(w).With().Timestamp()
	if prefix != "" {
		ctx = ctx.Str("module", prefix)
	}
	l := &DefaultLogger{zl: ctx.Logger()}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
	if enabled {
		l.zl = l.zl.Level(zerolog.DebugLevel)
	} else {
		l.zl = l.zl.Level(zerolog.InfoLevel)
	}
}

func (l *DefaultLogger) logger() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	zl := l.logger()
	zl.Debug().Msgf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	zl := l.logger()
	zl.Info().Msgf(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	zl := l.logger()
	zl.Warn().Msgf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	zl := l.logger()
	zl.Error().Msgf(format, args...)
}

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	app.addResources(NewDefaultLogger(m.Prefix, m.Debug))
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
