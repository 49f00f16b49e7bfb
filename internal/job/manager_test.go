package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

func TestCreateJob(t *testing.T) {
	m := NewManager()

	j, ctx, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)
	require.NotNil(t, ctx)

	assert.NotEmpty(t, j.ID)
	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, "https://x.test/playlist?list=PL123", j.Reference)
	assert.NoError(t, ctx.Err())
}

func TestCreateJobRejectsDuplicateReference(t *testing.T) {
	m := NewManager()
	reference := "https://x.test/playlist?list=PL123"

	_, _, err := m.CreateJob(reference)
	require.NoError(t, err)

	_, _, err = m.CreateJob(reference)
	assert.ErrorIs(t, err, ErrDuplicateRun)

	// A different playlist is unaffected.
	_, _, err = m.CreateJob("https://x.test/playlist?list=PL456")
	assert.NoError(t, err)
}

func TestCreateJobAllowsRerunAfterCompletion(t *testing.T) {
	m := NewManager()
	reference := "https://x.test/playlist?list=PL123"

	j, _, err := m.CreateJob(reference)
	require.NoError(t, err)

	m.MarkCompleted(j.ID, "/music/Road Trip.zip")

	_, _, err = m.CreateJob(reference)
	assert.NoError(t, err)
}

func TestGetJob(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	got, err := m.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)

	_, err = m.GetJob("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJobReturnsSnapshot(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	got, err := m.GetJob(j.ID)
	require.NoError(t, err)

	// Mutating the snapshot must not affect the manager's record.
	got.Status = StatusFailed
	got.Events = append(got.Events, domain.ProgressEvent{Completed: 1, Total: 3})

	fresh, err := m.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fresh.Status)
	assert.Empty(t, fresh.Events)
}

func TestRecordProgress(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	m.RecordProgress(j.ID, 0, 3)
	m.RecordProgress(j.ID, 1, 3)

	got, err := m.GetJob(j.ID)
	require.NoError(t, err)
	require.Len(t, got.Events, 2)
	assert.Equal(t, 1, got.Events[1].Completed)
	assert.Equal(t, "Processed 1/3 items", got.Message)
}

func TestJobLifecycle(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	m.MarkProcessing(j.ID, "Road Trip")
	got, _ := m.GetJob(j.ID)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Equal(t, "Road Trip", got.PlaylistTitle)
	assert.Nil(t, got.EndTime)

	m.MarkCompleted(j.ID, "/music/Road Trip.zip")
	got, _ = m.GetJob(j.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "/music/Road Trip.zip", got.ArchivePath)
	assert.NotNil(t, got.EndTime)
}

func TestMarkFailed(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	m.MarkFailed(j.ID, errors.New("boom"), false)

	got, _ := m.GetJob(j.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestMarkFailedCancelled(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	m.MarkFailed(j.ID, context.Canceled, true)

	got, _ := m.GetJob(j.ID)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Empty(t, got.Error)
}

func TestCancelJob(t *testing.T) {
	m := NewManager()

	j, ctx, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	require.NoError(t, m.CancelJob(j.ID))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	got, _ := m.GetJob(j.ID)
	assert.Equal(t, StatusCancelled, got.Status)

	// Already cancelled.
	err = m.CancelJob(j.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = m.CancelJob("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListJobsReturnsSnapshots(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)
	m.RecordProgress(j.ID, 0, 3)

	resp := m.ListJobs(1, 10)
	require.Len(t, resp.Jobs, 1)

	// Mutating a listed job must not affect the manager's record.
	resp.Jobs[0].Status = StatusFailed
	resp.Jobs[0].Events = append(resp.Jobs[0].Events, domain.ProgressEvent{Completed: 9, Total: 9})

	fresh, err := m.GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fresh.Status)
	assert.Len(t, fresh.Events, 1)
}

func TestListJobsSafeDuringProgress(t *testing.T) {
	m := NewManager()

	j, _, err := m.CreateJob("https://x.test/playlist?list=PL123")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= 100; i++ {
			m.RecordProgress(j.ID, i, 100)
		}
	}()

	// Listed jobs are snapshots, so marshalling them while the run
	// goroutine records progress must be race-free.
	for i := 0; i < 50; i++ {
		resp := m.ListJobs(1, 10)
		_, err := json.Marshal(resp)
		assert.NoError(t, err)
	}
	<-done
}

func TestListJobsStableOrder(t *testing.T) {
	m := NewManager()

	for i := 0; i < 8; i++ {
		_, _, err := m.CreateJob(fmt.Sprintf("https://x.test/playlist?list=PL%d", i))
		require.NoError(t, err)
	}

	first := m.ListJobs(1, 10)
	second := m.ListJobs(1, 10)
	require.Len(t, first.Jobs, 8)

	// Pages come back in the same order on every call, newest first.
	for i := range first.Jobs {
		assert.Equal(t, first.Jobs[i].ID, second.Jobs[i].ID)
	}
	for i := 1; i < len(first.Jobs); i++ {
		assert.False(t, first.Jobs[i-1].StartTime.Before(first.Jobs[i].StartTime))
	}
}

func TestListJobs(t *testing.T) {
	m := NewManager()

	for i := 0; i < 15; i++ {
		_, _, err := m.CreateJob(fmt.Sprintf("https://x.test/playlist?list=PL%d", i))
		require.NoError(t, err)
	}

	resp := m.ListJobs(1, 10)
	assert.Len(t, resp.Jobs, 10)
	assert.Equal(t, 15, resp.TotalJobs)
	assert.Equal(t, 2, resp.TotalPages)

	resp = m.ListJobs(2, 10)
	assert.Len(t, resp.Jobs, 5)

	// Out-of-range page is empty, not an error.
	resp = m.ListJobs(5, 10)
	assert.Empty(t, resp.Jobs)

	// Invalid inputs fall back to defaults.
	resp = m.ListJobs(0, 1000)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
}
