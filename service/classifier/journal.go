package classifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/khaledhikmat/vs-activity/service/lgr"
	"github.com/natefinch/lumberjack"
)

type detection struct {
	Timestamp int64  `json:"timestamp"`
	Backend   string `json:"backend"`
	Activity  string `json:"activity"`
	Answer    string `json:"answer,omitempty"`
	Verdict   bool   `json:"verdict"`
	Error     string `json:"error,omitempty"`
}

// journal appends one JSON line per classified frame.
type journal struct {
	mu sync.Mutex
	w  io.Writer
}

func newJournal(folder string) *journal {
	return &journal{
		w: &lumberjack.Logger{
			Filename:   filepath.Join(folder, "detections.log"),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     7,    // days
			Compress:   true, // compress old logs
		},
	}
}

func (j *journal) record(entry detection) {
	if j == nil || j.w == nil {
		return
	}

	entry.Timestamp = time.Now().Unix()
	data, err := json.Marshal(entry)
	if err != nil {
		lgr.Logger.Warn("error marshaling detection", slog.Any("error", err))
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.w.Write(append(data, '\n')); err != nil {
		lgr.Logger.Warn("error writing to detection log", slog.Any("error", err))
	}
}
