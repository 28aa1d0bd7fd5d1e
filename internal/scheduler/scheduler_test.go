package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob("@every 10m", &countingJob{}))
	require.NoError(t, s.AddJob("0 */5 * * * *", &countingJob{}))
	assert.Equal(t, 2, s.Jobs())

	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Equal(t, 2, s.Jobs())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(testLogger())

	job := &countingJob{}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int32(1), job.runs.Load())

	failing := &countingJob{err: errors.New("boom")}
	assert.EqualError(t, s.RunNow(failing), "boom")
}

func TestScheduler_RunsScheduledJobs(t *testing.T) {
	s := New(testLogger())

	job := &countingJob{}
	failing := &countingJob{err: errors.New("boom")}
	require.NoError(t, s.AddJob("* * * * * *", job))
	require.NoError(t, s.AddJob("* * * * * *", failing))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() > 0 && failing.runs.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
