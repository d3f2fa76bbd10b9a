package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger writes colored, component-tagged lines to stdout and mirrors every
// entry (uncolored) into logs/safi-kitchen.log when the file can be opened.
type Logger struct {
	mu   sync.Mutex
	file *os.File

	info    *color.Color
	warn    *color.Color
	errc    *color.Color
	debug   *color.Color
	process *color.Color
}

func NewLogger() *Logger {
	l := &Logger{
		info:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		errc:    color.New(color.FgRed, color.Bold),
		debug:   color.New(color.FgCyan),
		process: color.New(color.FgMagenta, color.Bold),
	}

	if err := os.MkdirAll("logs", 0o755); err == nil {
		f, err := os.OpenFile("logs/safi-kitchen.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			l.file = f
		}
	}

	return l
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) write(c *color.Color, level, component, message string) {
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("[%s] %-5s [%s] %s", ts, level, component, message)

	l.mu.Lock()
	defer l.mu.Unlock()

	c.Fprintln(os.Stdout, line)
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

func (l *Logger) Info(component, message string)  { l.write(l.info, "INFO", component, message) }
func (l *Logger) Warn(component, message string)  { l.write(l.warn, "WARN", component, message) }
func (l *Logger) Error(component, message string) { l.write(l.errc, "ERROR", component, message) }
func (l *Logger) Debug(component, message string) { l.write(l.debug, "DEBUG", component, message) }

func (l *Logger) Fatal(component, message string) {
	l.write(l.errc, "FATAL", component, message)
	l.Close()
	os.Exit(1)
}

// LogProcess marks lifecycle milestones (startup, shutdown, component init).
func (l *Logger) LogProcess(stage, message string) {
	l.write(l.process, "PROC", stage, message)
}

func (l *Logger) LogDatabase(operation, driver, message string) {
	l.write(l.info, "DB", fmt.Sprintf("%s:%s", driver, operation), message)
}

func (l *Logger) LogKafka(operation, topic, message string) {
	l.write(l.info, "KAFKA", fmt.Sprintf("%s:%s", topic, operation), message)
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.write(l.info, "API", "HTTP", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

// LogOrder tags entries with the order id they concern.
func (l *Logger) LogOrder(operation, orderID, message string) {
	l.write(l.info, "ORDER", operation, fmt.Sprintf("[%s] %s", orderID, message))
}

func (l *Logger) LogSecurity(event, message string) {
	l.write(l.warn, "SECURITY", event, message)
}
