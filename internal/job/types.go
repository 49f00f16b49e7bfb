package job

import (
	"context"
	"time"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

// Status represents the current state of an archiving job
type Status struct {
	ID            string                 `json:"id"`
	Status        string                 `json:"status"`
	Reference     string                 `json:"reference"`
	PlaylistTitle string                 `json:"playlistTitle,omitempty"`
	Message       string                 `json:"message"`
	Error         string                 `json:"error,omitempty"`
	ArchivePath   string                 `json:"archivePath,omitempty"`
	Events        []domain.ProgressEvent `json:"events"`
	StartTime     time.Time              `json:"startTime"`
	EndTime       *time.Time             `json:"endTime,omitempty"`
	cancelFunc    context.CancelFunc
}

// Request represents the request body for archiving a playlist
type Request struct {
	URL           string `json:"url" binding:"required"`
	FileExtension string `json:"fileExtension"`
	Bitrate       string `json:"bitrate"`
}

// Response represents the response for job listings
type Response struct {
	Jobs       []*Status `json:"jobs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalJobs  int       `json:"totalJobs"`
	TotalPages int       `json:"totalPages"`
}

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
