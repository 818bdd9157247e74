// Package logger provides leveled logging to stderr or a rotating file.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// FileOptions configures log file rotation.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger provides leveled logging.
type Logger struct {
	level  Level
	json   bool
	logger *log.Logger
	out    io.Writer
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
	closer        io.Closer
)

// ParseLevel maps a level name to a Level. Unknown names are InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init initializes the default logger with the specified level and format, writing to stderr.
func Init(level string, format string) {
	setDefault(newLogger(level, format, os.Stderr), nil)
}

// InitFile initializes the default logger writing to a size-rotated file.
func InitFile(level string, format string, opts FileOptions) {
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	setDefault(newLogger(level, format, w), w)
}

// InitWriter initializes the default logger writing to w.
func InitWriter(level string, format string, w io.Writer) {
	setDefault(newLogger(level, format, w), nil)
}

// Close releases the log file opened by InitFile, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func newLogger(level, format string, w io.Writer) *Logger {
	l := &Logger{level: ParseLevel(level), out: w}
	if strings.ToLower(format) == "json" {
		l.json = true
		return l
	}
	l.logger = log.New(w, "", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return l
}

func setDefault(l *Logger, c io.Closer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	defaultLogger, closer = l, c
}

type jsonEntry struct {
	Time  string `json:"time"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func output(level Level, format string, args ...interface{}) {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil || l.level > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.json {
		line, err := json.Marshal(jsonEntry{Time: time.Now().Format(time.RFC3339Nano), Level: level.String(), Msg: msg})
		if err != nil {
			return
		}
		_, _ = l.out.Write(append(line, '\n'))
		return
	}
	_ = l.logger.Output(3, "["+level.String()+"] "+msg)
}

func Debug(format string, args ...interface{}) {
	output(DebugLevel, format, args...)
}

func Info(format string, args ...interface{}) {
	output(InfoLevel, format, args...)
}

func Warn(format string, args ...interface{}) {
	output(WarnLevel, format, args...)
}

func Error(format string, args ...interface{}) {
	output(ErrorLevel, format, args...)
}

func Fatal(format string, args ...interface{}) {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if l != nil && l.logger != nil {
		_ = l.logger.Output(2, msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	_ = Close()
	os.Exit(1)
}
