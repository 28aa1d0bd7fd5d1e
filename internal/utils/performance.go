package utils

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// SlowThreshold is the duration above which a timed operation logs at info.
	SlowThreshold = 2 * time.Second
	// VerySlowThreshold is the duration above which a timed operation warns.
	VerySlowThreshold = 10 * time.Second
)

// Timer measures the duration of one operation
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer starts a timer for the named operation
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop logs the elapsed duration and returns it
func (t *Timer) Stop() time.Duration {
	return t.StopWithContext(nil)
}

// StopWithContext logs the elapsed duration along with the given fields
func (t *Timer) StopWithContext(fields map[string]interface{}) time.Duration {
	duration := time.Since(t.start)

	event := t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration)
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg("Performance measurement")

	logSlow(t.log, t.name, duration)
	return duration
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func MyFunction() {
//	    defer utils.OperationTimer("my_function", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		logSlow(log, operation, duration)
	}
}

func logSlow(log zerolog.Logger, operation string, duration time.Duration) {
	if duration > VerySlowThreshold {
		log.Warn().
			Str("operation", operation).
			Dur("duration", duration).
			Msg("Slow operation detected")
	} else if duration > SlowThreshold {
		log.Info().
			Str("operation", operation).
			Dur("duration", duration).
			Msg("Operation took longer than expected")
	}
}
