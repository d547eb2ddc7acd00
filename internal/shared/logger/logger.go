package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/parkwarden/parkwarden/internal/shared/config"
)

var (
	mu          sync.RWMutex
	root        *slog.Logger
	atomicLevel = new(slog.LevelVar)
)

// Init builds the process logger from configuration. In debug mode every level
// carries its source location, otherwise only warnings and errors do.
func Init(cfg *config.LoggerConfig, mode string) error {
	atomicLevel.Set(parseLevel(cfg.Level))

	writer, err := openWriter(cfg.OutputPath)
	if err != nil {
		return err
	}

	sourceLevel := slog.LevelWarn
	if mode == "debug" {
		sourceLevel = slog.LevelDebug
	}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		base = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: atomicLevel})
	} else {
		base = newTintHandler(writer, atomicLevel)
	}

	l := slog.New(newSourceHandler(base, sourceLevel))

	mu.Lock()
	root = l
	mu.Unlock()
	slog.SetDefault(l)

	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriter(path string) (io.Writer, error) {
	switch strings.ToLower(path) {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}

func newTintHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	})
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Get returns the process logger, creating a console logger on first use
// when Init has not run.
func Get() *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = slog.New(newSourceHandler(newTintHandler(os.Stdout, atomicLevel), slog.LevelWarn))
		slog.SetDefault(root)
	}
	return root
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func Sync() error {
	return nil
}

