package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_StopWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	d := NewTimer("represent", log).StopWithContext(map[string]interface{}{
		"format": "dense-numeric",
		"cached": false,
		"rows":   3,
	})

	assert.GreaterOrEqual(t, int64(d), int64(0))
	out := buf.String()
	assert.Contains(t, out, `"operation":"represent"`)
	assert.Contains(t, out, `"format":"dense-numeric"`)
	assert.Contains(t, out, `"cached":false`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, "Performance measurement")
	assert.NotContains(t, out, "Slow operation")
}

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("cache_cleanup", log)
	done()

	assert.Contains(t, buf.String(), `"operation":"cache_cleanup"`)
	assert.Contains(t, buf.String(), "Operation completed")
}

func TestTimer_SilentAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	NewTimer("represent", zerolog.New(&buf).Level(zerolog.InfoLevel)).Stop()
	assert.Empty(t, buf.String())
}
