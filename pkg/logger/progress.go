package logger

import (
	"fmt"
	"sync"
	"time"
)

// BatchTracker tracks progress of a document batch run. The pipeline updates
// it once per processed file; progress lines are rate-limited so polling-loop
// runs do not flood the log.
type BatchTracker struct {
	logger      Logger
	operation   string
	total       int
	processed   int
	failed      int
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
	mutex       sync.Mutex
}

// NewBatchTracker creates a tracker for a batch of total documents.
func NewBatchTracker(log Logger, operation string, total int) *BatchTracker {
	if log == nil {
		log = GetGlobalLogger()
	}

	tracker := &BatchTracker{
		logger:      log.WithComponent("progress"),
		operation:   operation,
		total:       total,
		startTime:   time.Now(),
		lastLogTime: time.Now(),
		logInterval: 5 * time.Second,
	}

	tracker.logger.WithFields(Fields{
		"operation": operation,
		"total":     total,
	}).Info("Starting batch")

	return tracker
}

// Success records one successfully processed document.
func (t *BatchTracker) Success() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.processed++
	t.maybeLog()
}

// Failure records one failed document.
func (t *BatchTracker) Failure() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.processed++
	t.failed++
	t.maybeLog()
}

func (t *BatchTracker) maybeLog() {
	now := time.Now()
	if now.Sub(t.lastLogTime) < t.logInterval {
		return
	}
	t.lastLogTime = now

	percent := 0.0
	if t.total > 0 {
		percent = float64(t.processed) / float64(t.total) * 100
	}
	t.logger.WithFields(Fields{
		"operation": t.operation,
		"processed": t.processed,
		"total":     t.total,
		"percent":   fmt.Sprintf("%.1f", percent),
	}).Info("Batch progress")
}

// Complete logs final statistics for the batch.
func (t *BatchTracker) Complete() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	duration := time.Since(t.startTime)
	t.logger.WithFields(Fields{
		"operation": t.operation,
		"total":     t.total,
		"processed": t.processed,
		"failed":    t.failed,
		"duration":  duration.String(),
	}).Info("Batch completed")
}
