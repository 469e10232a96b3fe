// Package logger holds the process-wide zap logger. Packages take a
// component child with Named; main configures the sinks once with Init.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log discards everything until Init runs, so tests need no setup.
	Log = zap.NewNop()
	// Sugar is Log with printf-style helpers.
	Sugar = Log.Sugar()
)

// Rotation bounds the size and age of the log file.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps three compressed 10 MB files for two weeks.
var DefaultRotation = Rotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 14, Compress: true}

// Options selects the sinks Setup builds. With no console and no file the
// logger discards everything.
type Options struct {
	Level    string
	File     string
	Rotation Rotation
	Console  bool
}

// Init logs to the console and, when logFile is set, to a rotated JSON file.
func Init(level string, logFile string) error {
	return Setup(Options{Level: level, File: logFile, Rotation: DefaultRotation, Console: true})
}

// Setup replaces Log and Sugar with a logger built from opts. An unknown
// level falls back to info and is reported once through the new logger.
func Setup(opts Options) error {
	lvl, levelErr := zapcore.ParseLevel(opts.Level)
	if levelErr != nil {
		lvl = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, consoleCore(lvl))
	}
	if opts.File != "" {
		cores = append(cores, fileCore(opts.File, opts.Rotation, lvl))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	}
	Sugar = Log.Sugar()

	if levelErr != nil {
		Log.Warn("unknown log level, using info", zap.String("requested", opts.Level))
	}
	return nil
}

func consoleCore(lvl zapcore.Level) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
	return zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)
}

// fileCore writes JSON lines so editing sessions can be grepped.
func fileCore(path string, rot Rotation, lvl zapcore.Level) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
		LocalTime:  true,
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		CallerKey:      "caller",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	return zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
}

// Named returns a child logger tagged with a component name ("scene", "editor", ...).
// The child is resolved at call time, so hold it only after Init has run.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Info logs on the root logger.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Error logs on the root logger.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
