package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"hdf-eco-tool/internal/config"
)

const logFile = "delete.log"

const defaultRotationDays = 30

// Logger writes leveled lines to the console and the rotated log file.
// Level tags are colored on the console only.
type Logger struct {
	console *log.Logger
	file    *log.Logger
	closer  io.Closer
}

var levelColors = map[string]*color.Color{
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

// New creates a logger writing to stderr and <logging.dir>/delete.log
func New(cfg *config.Config) *Logger {
	dir := filepath.Join(config.DefaultDir, "logs")
	rotateDays := defaultRotationDays
	if cfg != nil {
		if cfg.Logging.Dir != "" {
			dir = cfg.Logging.Dir
		}
		if cfg.Logging.RotationDays > 0 {
			rotateDays = cfg.Logging.RotationDays
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("failed to ensure log directory %s: %v", dir, err)
		return NewWithWriters(os.Stderr, nil)
	}

	filePath := filepath.Join(dir, logFile)
	rotateLogsIfNeeded(filePath, rotateDays)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", filePath, err)
		return NewWithWriters(os.Stderr, nil)
	}

	l := NewWithWriters(os.Stderr, f)
	l.closer = f
	return l
}

// NewWithWriters creates a logger over arbitrary sinks. A nil file writer
// logs to the console only.
func NewWithWriters(console, file io.Writer) *Logger {
	l := &Logger{console: log.New(console, "", log.LstdFlags)}
	if file != nil {
		l.file = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	}
	return l
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWithWriters(io.Discard, nil)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logWithLevel("WARN", msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

// Close releases the log file
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) logWithLevel(level, msg string, args ...interface{}) {
	line := formatLine(msg, args...)
	tag := "[" + level + "]"
	if c, ok := levelColors[level]; ok && !color.NoColor {
		l.console.Println(c.Sprint(tag), line)
	} else {
		l.console.Println(tag, line)
	}
	if l.file != nil {
		l.file.Println(tag, line)
	}
}

// formatLine renders msg followed by key=value pairs. An odd trailing
// argument is printed bare.
func formatLine(msg string, args ...interface{}) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		sb.WriteByte(' ')
		if i+1 >= len(args) {
			fmt.Fprint(&sb, args[i])
			break
		}
		fmt.Fprintf(&sb, "%v=%v", args[i], args[i+1])
	}
	return sb.String()
}

// rotateLogsIfNeeded rotates log files older than the specified days
func rotateLogsIfNeeded(logPath string, rotationDays int) {
	info, err := os.Stat(logPath)
	if err != nil {
		// Log file doesn't exist yet, nothing to rotate
		return
	}

	cutoffTime := time.Now().AddDate(0, 0, -rotationDays)
	if info.ModTime().Before(cutoffTime) {
		timestamp := info.ModTime().Format("20060102-150405")
		rotatedPath := logPath + "." + timestamp

		if err := os.Rename(logPath, rotatedPath); err != nil {
			log.Printf("failed to rotate log file: %v", err)
			return
		}

		cleanupOldLogs(logPath, rotationDays)
	}
}

// cleanupOldLogs removes rotated log files older than rotation days
func cleanupOldLogs(logPath string, rotationDays int) {
	logDir := filepath.Dir(logPath)
	baseName := filepath.Base(logPath)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	cutoffTime := time.Now().AddDate(0, 0, -rotationDays)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, baseName+".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			fullPath := filepath.Join(logDir, name)
			if err := os.Remove(fullPath); err != nil {
				log.Printf("failed to remove old log file %s: %v", fullPath, err)
			}
		}
	}
}
