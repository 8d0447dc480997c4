// Package logger is a small leveled logger shared by the command line tool and
// the simulation observers.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, errors.Errorf("unknown log level: %q", level)
	}
}

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	jsonFormat   = false
	logger       = stdlog.New(os.Stdout, "", 0)
	closer       io.Closer
	now          = time.Now
)

func SetLevel(level string) {
	l, err := ParseLevel(level)
	if err != nil {
		return
	}
	mu.Lock()
	currentLevel = l
	mu.Unlock()
}

func Enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return level >= currentLevel
}

// SetFormat selects "text" or "json" output.
func SetFormat(format string) error {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(format) {
	case "text":
		jsonFormat = false
	case "json":
		jsonFormat = true
	default:
		return errors.Errorf("unknown log format: %q", format)
	}
	return nil
}

// SetOutput sends the logs to "stdout", "stderr" or appends them to the file
// at the given path.
func SetOutput(output string) error {
	var w io.Writer
	switch output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.WithStack(err)
		}
		w = f
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		closer = c
	}
	logger.SetOutput(w)
	return nil
}

// SetWriter redirects the logs to w.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Close closes the log file opened by SetOutput, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	logger.SetOutput(os.Stdout)
	return errors.WithStack(err)
}

type jsonRecord struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func log(level Level, format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < currentLevel {
		return
	}

	timestamp := now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, v...)
	if jsonFormat {
		line, err := json.Marshal(jsonRecord{Time: timestamp, Level: level.String(), Message: message})
		if err != nil {
			panic(fmt.Sprintf("marshal log record: %v", err))
		}
		logger.Println(string(line))
		return
	}
	logger.Println(fmt.Sprintf("[%s] [%s] ", timestamp, level.String()) + message)
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
