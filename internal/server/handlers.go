package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jrossi/playlist-archiver/internal/job"
	"github.com/jrossi/playlist-archiver/internal/pipeline"
)

// archivePlaylist accepts an archiving request and starts a background
// job for it. A second request for a playlist with a live job is
// rejected with 409.
func (s *Server) archivePlaylist(c *gin.Context) {
	var req job.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if req.FileExtension == "" {
		req.FileExtension = s.cfg.FileExtension
	}
	if req.Bitrate == "" {
		req.Bitrate = s.cfg.AudioBitrate
	}

	j, ctx, err := s.jobManager.CreateJob(req.URL)
	if err != nil {
		if errors.Is(err, job.ErrDuplicateRun) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	go s.runInBackground(ctx, j.ID, req)

	c.JSON(202, gin.H{
		"jobId":   j.ID,
		"status":  "accepted",
		"message": "Archiving started",
	})
}

// runInBackground drives one pipeline run and mirrors its outcome into
// the job record.
func (s *Server) runInBackground(ctx context.Context, jobID string, req job.Request) {
	s.jobManager.MarkProcessing(jobID, "")

	result, err := s.runner.Run(ctx, req.URL, pipeline.Options{
		FileExtension: req.FileExtension,
		Bitrate:       req.Bitrate,
		OnProgress: func(completed, total int) {
			s.jobManager.RecordProgress(jobID, completed, total)
		},
	})

	if err != nil {
		cancelled := errors.Is(err, context.Canceled)
		s.jobManager.MarkFailed(jobID, err, cancelled)
		if !cancelled {
			slog.Error("Job failed", "jobId", jobID, "error", err)
		}
		return
	}

	s.jobManager.MarkProcessing(jobID, result.PlaylistTitle)
	s.jobManager.MarkCompleted(jobID, result.ArchivePath)
	slog.Info("Job completed",
		"jobId", jobID,
		"playlist", result.PlaylistTitle,
		"archived", result.Archived,
		"skipped", result.Skipped,
	)
}

// getJobStatus handles job status requests
func (s *Server) getJobStatus(c *gin.Context) {
	jobID := c.Param("id")

	j, err := s.jobManager.GetJob(jobID)
	if err != nil {
		c.JSON(404, gin.H{"error": fmt.Sprintf("%v: %s", job.ErrNotFound, jobID)})
		return
	}

	c.JSON(200, j)
}

// cancelJob handles job cancellation requests
func (s *Server) cancelJob(c *gin.Context) {
	jobID := c.Param("id")

	if err := s.jobManager.CancelJob(jobID); err != nil {
		switch {
		case errors.Is(err, job.ErrNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, job.ErrInvalidState):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"message": "Job cancelled"})
}

// listJobs handles listing all jobs
func (s *Server) listJobs(c *gin.Context) {
	page := 1
	pageSize := job.DefaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= job.MaxPageSize {
			pageSize = parsed
		}
	}

	c.JSON(200, s.jobManager.ListJobs(page, pageSize))
}
