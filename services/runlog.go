package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tlbc-notify-backend/models"
	"tlbc-notify-backend/utils"
)

// RunLog is the append-only record of delivery attempts, one pretty
// printed JSON array file per calendar day. There is a single in-process
// writer, so the only write discipline needed is rename-on-write.
type RunLog struct {
	dir    string
	prefix string
}

func NewRunLog(dir, prefix string) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &LogIOError{Path: dir, Err: err}
	}
	return &RunLog{dir: dir, prefix: prefix}, nil
}

func (l *RunLog) partitionPath(date string) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s-%s.json", l.prefix, date))
}

// Append adds one attempt to today's partition. The current content is
// re-read first so records appended by earlier runs the same day are
// preserved; missing or corrupt content counts as empty.
func (l *RunLog) Append(attempt models.DeliveryAttempt) error {
	date := utils.DateKey(time.Now())
	path := l.partitionPath(date)

	attempts := l.ReadDay(date)
	attempts = append(attempts, attempt)

	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return &LogIOError{Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &LogIOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &LogIOError{Path: path, Err: err}
	}
	return nil
}

// ReadDay returns the attempts logged on the given ISO date. A missing
// or unparseable partition reads as empty, never as an error.
func (l *RunLog) ReadDay(date string) []models.DeliveryAttempt {
	data, err := os.ReadFile(l.partitionPath(date))
	if err != nil {
		return []models.DeliveryAttempt{}
	}

	var attempts []models.DeliveryAttempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		return []models.DeliveryAttempt{}
	}
	return attempts
}

// ListDays returns the sorted date keys that have a partition file.
func (l *RunLog) ListDays() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return []string{}
	}

	days := []string{}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, l.prefix+"-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		days = append(days, strings.TrimSuffix(strings.TrimPrefix(name, l.prefix+"-"), ".json"))
	}
	sort.Strings(days)
	return days
}
