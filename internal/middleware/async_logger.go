package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/logger"
	"github.com/guttosm/allocation-service/internal/service"
)

// AsyncLoggerConfig holds configuration for the async logger.
type AsyncLoggerConfig struct {
	// BufferSize is the capacity of the entry queue.
	BufferSize int
	// NumWorkers is the number of goroutines draining the queue.
	NumWorkers int
	// WriteTimeout bounds a single database write.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the default async logger configuration.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:   1000,
		NumWorkers:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// AsyncLogger writes request log entries to the database through a bounded
// queue and a fixed worker pool, so a slow database never stalls request
// handling and load spikes cannot spawn unbounded goroutines.
type AsyncLogger struct {
	loggingService service.LoggingService
	queue          chan *model.LogEntry
	quit           chan struct{}
	workers        sync.WaitGroup
	writeTimeout   time.Duration

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	errors   atomic.Int64
}

// NewAsyncLogger starts an async logger with cfg.NumWorkers workers.
// Returns nil when loggingService is nil.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}

	l := &AsyncLogger{
		loggingService: loggingService,
		queue:          make(chan *model.LogEntry, cfg.BufferSize),
		quit:           make(chan struct{}),
		writeTimeout:   cfg.WriteTimeout,
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		l.workers.Add(1)
		go l.run()
	}

	return l
}

func (l *AsyncLogger) run() {
	defer l.workers.Done()

	for {
		select {
		case entry, ok := <-l.queue:
			if !ok {
				return
			}
			l.write(entry)
		case <-l.quit:
			// Drain whatever is still queued, then exit.
			for {
				select {
				case entry := <-l.queue:
					l.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *AsyncLogger) write(entry *model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	if err := l.loggingService.CreateLog(ctx, entry); err != nil {
		l.errors.Add(1)
		log := logger.Logger()
		log.Warn().Err(err).Msg("Failed to persist request log entry")
		return
	}
	l.written.Add(1)
}

// Log enqueues an entry for background persistence. It never blocks:
// when the queue is full the entry is dropped and false is returned.
func (l *AsyncLogger) Log(entry *model.LogEntry) bool {
	select {
	case l.queue <- entry:
		l.enqueued.Add(1)
		return true
	default:
		l.dropped.Add(1)
		return false
	}
}

// Stop shuts the logger down after draining all pending entries.
func (l *AsyncLogger) Stop() {
	close(l.quit)
	l.workers.Wait()
	close(l.queue)
}

// Stats reports the lifetime counters of the logger.
func (l *AsyncLogger) Stats() (enqueued, dropped, written, errors int64) {
	return l.enqueued.Load(), l.dropped.Load(), l.written.Load(), l.errors.Load()
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger installs the process-wide async logger, stopping any
// previously installed one. Called once during application startup.
func InitAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(loggingService, cfg)
}

// GetAsyncLogger returns the process-wide async logger, or nil when none
// has been installed.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger drains and removes the process-wide async logger.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
