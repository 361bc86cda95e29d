package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Read returns the last maxLines lines of the file at path, oldest first.
// maxLines <= 0 returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if maxLines > 0 && len(lines) > 2*maxLines {
			lines = append(lines[:0], lines[len(lines)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Entry is one decoded JSON log record.
type Entry struct {
	Time    string
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
}

// reserved keys are rendered in fixed columns rather than as fields.
var reserved = map[string]bool{"ts": true, "level": true, "logger": true, "msg": true, "caller": true}

// Parse decodes a JSON log line. Lines that are not JSON objects return false.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	e := Entry{Fields: map[string]any{}}
	e.Time, _ = raw["ts"].(string)
	e.Logger, _ = raw["logger"].(string)
	e.Message, _ = raw["msg"].(string)
	if lvl, ok := raw["level"].(string); ok {
		_ = e.Level.UnmarshalText([]byte(lvl))
	}
	for k, v := range raw {
		if !reserved[k] {
			e.Fields[k] = v
		}
	}
	return e, true
}

// Format renders e as one human-readable line:
//
//	2026-01-02T15:04:05.000Z  WARN  favorites  store operation failed  id=3 op=save
func Format(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Time)
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("%-5s", e.Level.CapitalString()))
	if e.Logger != "" {
		b.WriteString("  ")
		b.WriteString(e.Logger)
	}
	b.WriteString("  ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, e.Fields[k]))
	}
	return b.String()
}

// Pretty formats lines at or above min. Lines that fail to parse are kept
// verbatim so nothing is hidden.
func Pretty(lines []string, min zapcore.Level) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		e, ok := Parse(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				out = append(out, line)
			}
			continue
		}
		if e.Level < min {
			continue
		}
		out = append(out, Format(e))
	}
	return out
}
