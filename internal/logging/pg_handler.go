package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// LogWriter persists a batch of error records.
type LogWriter interface {
	WriteLogs(entries []models.SystemLog) error
}

// GormLogWriter stores records in the system_logs table.
type GormLogWriter struct {
	db *gorm.DB
}

func NewGormLogWriter(db *gorm.DB) *GormLogWriter {
	return &GormLogWriter{db: db}
}

func (w *GormLogWriter) WriteLogs(entries []models.SystemLog) error {
	return w.db.CreateInBatches(entries, batchSize).Error
}

// ErrorSink is an slog.Handler that buffers ERROR records and writes them in batches.
type ErrorSink struct {
	writer LogWriter
	attrs  []slog.Attr

	state *sinkState
}

type sinkState struct {
	mu     sync.Mutex
	buffer []models.SystemLog
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewErrorSink(writer LogWriter) *ErrorSink {
	s := &ErrorSink{
		writer: writer,
		state:  &sinkState{buffer: make([]models.SystemLog, 0, batchSize), done: make(chan struct{})},
	}
	s.state.wg.Add(1)
	go s.loop()
	return s
}

func (s *ErrorSink) loop() {
	defer s.state.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Flush()
		case <-s.state.done:
			s.Flush()
			return
		}
	}
}

// Flush writes whatever is buffered. Write failures are logged at WARN so
// they never land back in the sink.
func (s *ErrorSink) Flush() {
	st := s.state
	st.mu.Lock()
	if len(st.buffer) == 0 {
		st.mu.Unlock()
		return
	}
	batch := st.buffer
	st.buffer = make([]models.SystemLog, 0, batchSize)
	st.mu.Unlock()

	if err := s.writer.WriteLogs(batch); err != nil {
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes the buffer and waits for the background loop and any batch
// flush still running. Safe to call twice.
func (s *ErrorSink) Stop() {
	s.state.once.Do(func() { close(s.state.done) })
	s.state.wg.Wait()
}

func (s *ErrorSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (s *ErrorSink) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	extra := map[string]any{}
	collect := func(a slog.Attr) bool {
		value := a.Value.Resolve()
		switch a.Key {
		case "request_id":
			entry.RequestID = value.String()
		case "user_id":
			if id := value.String(); id != "" {
				entry.UserID = &id
			}
		case "method":
			entry.Method = value.String()
		case "path":
			entry.Path = value.String()
		case "error":
			entry.Error = value.String()
		default:
			extra[a.Key] = value.Any()
		}
		return true
	}
	for _, a := range s.attrs {
		collect(a)
	}
	record.Attrs(collect)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	st := s.state
	st.mu.Lock()
	st.buffer = append(st.buffer, entry)
	full := len(st.buffer) >= batchSize
	st.mu.Unlock()

	if full {
		st.wg.Add(1)
		go func() {
			defer st.wg.Done()
			s.Flush()
		}()
	}
	return nil
}

func (s *ErrorSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	merged = append(merged, s.attrs...)
	merged = append(merged, attrs...)
	return &ErrorSink{writer: s.writer, attrs: merged, state: s.state}
}

// WithGroup flattens groups; the table has no nesting.
func (s *ErrorSink) WithGroup(string) slog.Handler {
	return s
}
