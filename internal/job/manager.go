package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

// Manager handles job management. It serializes runs per playlist
// reference: a second request for a reference with a live job is
// rejected with ErrDuplicateRun.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Status
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob creates a new job for the given playlist reference.
func (m *Manager) CreateJob(reference string) (*Status, context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.jobs {
		if existing.Reference == reference && isActive(existing.Status) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateRun, reference)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	j := &Status{
		ID:         uuid.NewString(),
		Status:     StatusPending,
		Reference:  reference,
		Message:    "Job created",
		StartTime:  time.Now(),
		Events:     make([]domain.ProgressEvent, 0),
		cancelFunc: cancel,
	}

	m.jobs[j.ID] = j
	return j, ctx, nil
}

func isActive(status string) bool {
	return status == StatusPending || status == StatusProcessing
}

// GetJob retrieves a copy of a job by ID.
func (m *Manager) GetJob(jobID string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	snapshot := *j
	snapshot.Events = append([]domain.ProgressEvent(nil), j.Events...)
	return &snapshot, nil
}

// RecordProgress appends a progress event and updates the job message.
func (m *Manager) RecordProgress(jobID string, completed, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, exists := m.jobs[jobID]
	if !exists {
		return
	}

	j.Events = append(j.Events, domain.ProgressEvent{Completed: completed, Total: total})
	j.Message = fmt.Sprintf("Processed %d/%d items", completed, total)
}

// MarkProcessing transitions a job to the processing state.
func (m *Manager) MarkProcessing(jobID, playlistTitle string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j, exists := m.jobs[jobID]; exists {
		j.Status = StatusProcessing
		j.PlaylistTitle = playlistTitle
		j.Message = "Archiving playlist"
	}
}

// MarkCompleted records a successful run's archive location.
func (m *Manager) MarkCompleted(jobID, archivePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j, exists := m.jobs[jobID]; exists {
		j.Status = StatusCompleted
		j.ArchivePath = archivePath
		j.Message = "Archive created"
		now := time.Now()
		j.EndTime = &now
	}
}

// MarkFailed records a run failure. A cancelled context is reported as
// cancelled rather than failed.
func (m *Manager) MarkFailed(jobID string, err error, cancelled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if cancelled {
		j.Status = StatusCancelled
		j.Message = "Job cancelled"
	} else {
		j.Status = StatusFailed
		j.Error = err.Error()
		j.Message = "Archiving failed"
	}
	now := time.Now()
	j.EndTime = &now
}

// CancelJob cancels a pending or processing job.
func (m *Manager) CancelJob(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	if !isActive(j.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidState, j.Status)
	}

	j.cancelFunc()
	j.Status = StatusCancelled
	j.Message = "Job cancelled by user"
	now := time.Now()
	j.EndTime = &now

	return nil
}

// ListJobs lists all jobs with pagination, newest first. Like GetJob,
// it returns snapshots so callers can read them without holding the
// manager's lock.
func (m *Manager) ListJobs(page, pageSize int) *Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]*Status, 0, len(m.jobs))
	for _, j := range m.jobs {
		snapshot := *j
		snapshot.Events = append([]domain.ProgressEvent(nil), j.Events...)
		jobs = append(jobs, &snapshot)
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].StartTime.Equal(jobs[k].StartTime) {
			return jobs[i].StartTime.After(jobs[k].StartTime)
		}
		return jobs[i].ID < jobs[k].ID
	})

	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(jobs) {
		return &Response{
			Jobs:       []*Status{},
			Page:       page,
			PageSize:   pageSize,
			TotalJobs:  len(jobs),
			TotalPages: (len(jobs) + pageSize - 1) / pageSize,
		}
	}

	if end > len(jobs) {
		end = len(jobs)
	}

	return &Response{
		Jobs:       jobs[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: (len(jobs) + pageSize - 1) / pageSize,
	}
}
