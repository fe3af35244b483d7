package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log, time.Second)

	err := s.AddJob("not a cron expression", &countingJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting")
}

func TestAddJob_AcceptsValidSchedule(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log, time.Second)

	assert.NoError(t, s.AddJob("0 * * * *", &countingJob{}))
}

func TestRunNow(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log, time.Second)

	job := &countingJob{}
	s.RunNow(job)
	assert.Equal(t, 1, job.runs)

	// A failing job must not panic the scheduler
	failing := &countingJob{err: errors.New("boom")}
	s.RunNow(failing)
	assert.Equal(t, 1, failing.runs)
}

func TestStartStop(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log, time.Second)

	s.Start()
	s.Stop()
}
