/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Logging
 */

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

var (
	logMessagePool = sync.Pool{New: func() interface{} { return &LogMessage{} }}
	logBufferPool  = sync.Pool{New: func() interface{} { return &bytes.Buffer{} }}
)

// LogLevel is a bitmask of enabled log levels
type LogLevel int

// LogLevel bits
const (
	LogError LogLevel = 1 << iota
	LogInfo
	LogDebug
	LogTraceIPP
	LogTraceHTTP

	LogAll = LogError | LogInfo | LogDebug | LogTraceIPP | LogTraceHTTP
)

// Logger implements logging facilities
type Logger struct {
	lock       sync.Mutex   // Write lock
	path       string       // Path to log file, "" if none
	time       bytes.Buffer // Time prefix buffer
	out        io.Writer    // Output destination, nil if none
	file       *os.File     // Output file, when logging to file
	console    bool         // true for console logger
	levels     LogLevel     // Enabled levels
	maxSize    int64        // Rotate when file exceeds this size
	maxBackups uint         // Count of files preserved during rotation
}

// NewLogger creates a new logger. Initially it writes nowhere
func NewLogger() *Logger {
	return &Logger{
		levels:     LogError | LogInfo,
		maxSize:    256 * 1024,
		maxBackups: 5,
	}
}

// ToConsole redirects log to the console (stderr)
func (l *Logger) ToConsole() *Logger {
	return l.ToWriter(os.Stderr, true)
}

// ToWriter redirects log to the io.Writer. The console flag
// suppresses time stamps
func (l *Logger) ToWriter(w io.Writer, console bool) *Logger {
	l.lock.Lock()
	l.closeFile()
	l.out = w
	l.path = ""
	l.console = console
	l.lock.Unlock()
	return l
}

// ToFile redirects log to the file. File is opened on demand
// and rotated when it grows over the size limit
func (l *Logger) ToFile(path string, maxSize int64, maxBackups uint) *Logger {
	l.lock.Lock()
	l.closeFile()
	l.out = nil
	l.path = path
	l.console = false
	l.maxSize = maxSize
	l.maxBackups = maxBackups
	l.lock.Unlock()
	return l
}

// SetLevels sets the mask of enabled levels
func (l *Logger) SetLevels(levels LogLevel) *Logger {
	l.lock.Lock()
	l.levels = levels
	l.lock.Unlock()
	return l
}

// Levels returns the mask of enabled levels
func (l *Logger) Levels() LogLevel {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.levels
}

// Close the logger
func (l *Logger) Close() {
	l.lock.Lock()
	l.closeFile()
	l.lock.Unlock()
}

// closeFile closes the log file, if it is open. Called under the lock
func (l *Logger) closeFile() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// Begin new log message
func (l *Logger) Begin() *LogMessage {
	msg := logMessagePool.Get().(*LogMessage)
	msg.logger = l
	return msg
}

// Debug writes a LogDebug message
func (l *Logger) Debug(prefix byte, format string, args ...interface{}) {
	l.Begin().Debug(prefix, format, args...).Commit()
}

// Info writes a LogInfo message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Begin().Info(format, args...).Commit()
}

// Error writes a LogError message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Begin().Error(format, args...).Commit()
}

// Dump writes HEX dump with optional title. If title is not "", it is
// formatted, as fmt.Printf does, and prepended to the dump
func (l *Logger) Dump(data []byte, title string, args ...interface{}) {
	l.Begin().Dump(LogDebug, data, title, args...).Commit()
}

// Tracer returns a protocol tracer, that writes to this Logger
// with the specified level
func (l *Logger) Tracer(level LogLevel) *LogTracer {
	return &LogTracer{logger: l, level: level}
}

// Format a time prefix
func (l *Logger) fmtTime() {
	l.time.Reset()
	if l.console {
		return
	}

	now := time.Now()

	year, month, day := now.Date()
	fmt.Fprintf(&l.time, "%2.2d-%2.2d-%4.4d ", day, month, year)

	hour, min, sec := now.Clock()
	fmt.Fprintf(&l.time, "%2.2d:%2.2d:%2.2d", hour, min, sec)

	l.time.WriteString(": ")
}

// Open log file on demand. Called under the lock
func (l *Logger) open() io.Writer {
	if l.out != nil {
		return l.out
	}

	if l.path == "" {
		return nil
	}

	if l.file == nil {
		os.MkdirAll(filepath.Dir(l.path), 0755)
		l.file, _ = os.OpenFile(l.path,
			os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if l.file == nil {
			return nil
		}
	}

	l.rotate()
	return l.file
}

// Handle log rotation
func (l *Logger) rotate() {
	// Do we need to rotate?
	stat, err := l.file.Stat()
	if err != nil || stat.Size() <= l.maxSize {
		return
	}

	// Perform rotation
	prevpath := ""
	for i := int(l.maxBackups); i >= 0; i-- {
		nextpath := l.path
		if i > 0 {
			nextpath += fmt.Sprintf(".%d.gz", i-1)
		}

		switch i {
		case int(l.maxBackups):
			os.Remove(nextpath)
		case 0:
			err := l.gzip(nextpath, prevpath)
			if err == nil {
				l.file.Truncate(0)
			}
		default:
			os.Rename(nextpath, prevpath)
		}

		prevpath = nextpath
	}
}

// gzip the log file
func (l *Logger) gzip(ipath, opath string) error {
	if opath == "" {
		return nil
	}

	// Open input file
	ifile, err := os.Open(ipath)
	if err != nil {
		return err
	}

	defer ifile.Close()

	// Open output file
	ofile, err := os.OpenFile(opath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	// gzip ifile->ofile
	w := gzip.NewWriter(ofile)
	_, err = io.Copy(w, ifile)
	err2 := w.Close()
	err3 := ofile.Close()

	switch {
	case err == nil && err2 != nil:
		err = err2
	case err == nil && err3 != nil:
		err = err3
	}

	// Cleanup and exit
	if err != nil {
		os.Remove(opath)
	}

	return err
}

// LogTracer writes protocol traces into the Logger at the
// fixed level. It implements client.Logger
type LogTracer struct {
	logger *Logger
	level  LogLevel
}

// Debug writes a trace line
func (t *LogTracer) Debug(prefix byte, format string, args ...interface{}) {
	t.logger.Begin().add(t.level, prefix, format, args...).Commit()
}

// Dump writes a HEX dump at the trace level
func (t *LogTracer) Dump(data []byte, title string, args ...interface{}) {
	t.logger.Begin().Dump(t.level, data, title, args...).Commit()
}

// LogMessage represents a single (possible multi line) log
// message, which will appear in the output log atomically,
// and will not be interrupted in the middle by other log activity
type LogMessage struct {
	logger *Logger   // Underlying logger
	lines  []logLine // One entry per line
}

// logLine is a single line of the LogMessage
type logLine struct {
	level LogLevel
	buf   *bytes.Buffer
}

// add formats a next line of log message, with level and prefix char
func (msg *LogMessage) add(level LogLevel, prefix byte,
	format string, args ...interface{}) *LogMessage {

	buf := logBufAlloc()
	buf.Write([]byte{prefix, ' '})
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')
	msg.lines = append(msg.lines, logLine{level, buf})
	return msg
}

// Debug writes a LogDebug message
func (msg *LogMessage) Debug(prefix byte, format string, args ...interface{}) *LogMessage {
	return msg.add(LogDebug, prefix, format, args...)
}

// Info writes a LogInfo message
func (msg *LogMessage) Info(format string, args ...interface{}) *LogMessage {
	return msg.add(LogInfo, ' ', format, args...)
}

// Error writes a LogError message
func (msg *LogMessage) Error(format string, args ...interface{}) *LogMessage {
	return msg.add(LogError, '!', format, args...)
}

// Write implements io.Writer interface. Text is automatically
// split into lines and logged at the LogInfo level
func (msg *LogMessage) Write(text []byte) (n int, err error) {
	n, err = len(text), nil

	for len(text) > 0 {
		// Fetch next line
		var line []byte

		if l := bytes.IndexByte(text, '\n'); l >= 0 {
			l++
			line = text[:l]
			text = text[l:]
		} else {
			line = text
			text = nil
		}

		// Save the line
		if cnt := len(msg.lines); cnt > 0 && !logBufTerminated(msg.lines[cnt-1].buf) {
			msg.lines[cnt-1].buf.Write(line)
		} else {
			buf := logBufAlloc()
			buf.Write([]byte("  "))
			buf.Write(line)
			msg.lines = append(msg.lines, logLine{LogInfo, buf})
		}
	}

	return
}

// Dump writes HEX dump with optional title at the specified level
func (msg *LogMessage) Dump(level LogLevel, data []byte,
	title string, args ...interface{}) *LogMessage {

	if title != "" {
		msg.add(level, ' ', title, args...)
	}

	hex := logBufAlloc()
	chr := logBufAlloc()

	defer logBufFree(hex)
	defer logBufFree(chr)

	off := 0

	for len(data) > 0 {
		hex.Reset()
		chr.Reset()

		sz := len(data)
		if sz > 16 {
			sz = 16
		}

		i := 0
		for ; i < sz; i++ {
			c := data[i]
			fmt.Fprintf(hex, "%2.2x", data[i])
			if i%4 == 3 {
				hex.Write([]byte(":"))
			} else {
				hex.Write([]byte(" "))
			}

			if 0x20 <= c && c < 0x80 {
				chr.WriteByte(c)
			} else {
				chr.WriteByte('.')
			}
		}

		for ; i < 16; i++ {
			hex.WriteString("   ")
		}

		msg.add(level, ' ', "%4.4x: %s %s", off, hex, chr)

		off += sz
		data = data[sz:]
	}

	return msg
}

// Commit message to the log
func (msg *LogMessage) Commit() {
	// Don't forget to free the message
	defer msg.free()

	// Ignore empty messages
	if len(msg.lines) == 0 {
		return
	}

	// Lock the logger
	l := msg.logger
	l.lock.Lock()
	defer l.lock.Unlock()

	// Anything to write?
	var levels LogLevel
	for _, line := range msg.lines {
		levels |= line.level
	}

	if levels&l.levels == 0 {
		return
	}

	out := l.open()
	if out == nil {
		return
	}

	// Send message content to the logger
	l.fmtTime()
	for _, line := range msg.lines {
		if line.level&l.levels == 0 {
			continue
		}

		if !logBufTerminated(line.buf) {
			line.buf.WriteByte('\n')
		}
		out.Write(l.time.Bytes())
		out.Write(line.buf.Bytes())
	}
}

// Reject the message
func (msg *LogMessage) Reject() {
	msg.free()
}

// Return message to the logMessagePool
func (msg *LogMessage) free() {
	for _, l := range msg.lines {
		logBufFree(l.buf)
	}

	// Reset the message and put it to the pool
	if len(msg.lines) < 16 {
		msg.lines = msg.lines[:0] // Keep memory, reset content
	} else {
		msg.lines = nil
	}

	msg.logger = nil

	// Put the message
	logMessagePool.Put(msg)
}

// Check if line buffer is '\n'-terminated
func logBufTerminated(buf *bytes.Buffer) bool {
	if l := buf.Len(); l > 0 {
		return buf.Bytes()[l-1] == '\n'
	}
	return false
}

// Allocate a buffer
func logBufAlloc() *bytes.Buffer {
	return logBufferPool.Get().(*bytes.Buffer)
}

// Free a buffer
func logBufFree(buf *bytes.Buffer) {
	if buf.Cap() <= 256 {
		buf.Reset()
		logBufferPool.Put(buf)
	}
}
