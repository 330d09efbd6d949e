package writer

import "time"

// WriterConfig holds batching parameters shared by all writers.
type WriterConfig struct {
	BatchSize     int           // Rows per batch insert
	FlushInterval time.Duration // Max time a row waits before flush
}

// DefaultWriterConfig returns default configuration.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     1000,
		FlushInterval: time.Second,
	}
}

// WriterMetrics counts writer activity since start.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
