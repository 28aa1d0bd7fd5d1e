package di

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWire(t *testing.T) {
	container, jobs, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.CacheDB)
	assert.NotNil(t, container.Service)
	assert.NotNil(t, jobs.CacheCleanup)
}

func TestWire_BadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheCleanupSchedule = "whenever"

	_, _, err := Wire(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register jobs")
}
