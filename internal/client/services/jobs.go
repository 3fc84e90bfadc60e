package services

import (
	"context"

	"github.com/dmitrijs2005/hirehub/internal/client/client"
	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

const (
	MsgBookmarkOK       = "Job bookmarked"
	MsgBookmarkFailed   = "Failed to bookmark job"
	MsgUnbookmarkOK     = "Bookmark removed"
	MsgUnbookmarkFailed = "Failed to remove bookmark"
	MsgBookmarksFailed  = "Failed to load bookmarks"
	MsgAppliedFailed    = "Failed to load applied jobs"
)

// JobsAPI is the part of client.API behind the saved-jobs views.
type JobsAPI interface {
	Bookmarks(ctx context.Context) ([]models.Job, error)
	AddBookmark(ctx context.Context, jobID models.ID) error
	RemoveBookmark(ctx context.Context, jobID models.ID) error
	AppliedJobs(ctx context.Context) ([]models.Job, error)
}

// JobsService serves the signed-in user's bookmarks and applications.
// Nothing is cached: every call asks the backend.
type JobsService struct {
	api    JobsAPI
	notice notify.Notifier
	log    logging.Logger
}

func NewJobsService(api JobsAPI, n notify.Notifier, log logging.Logger) *JobsService {
	if n == nil {
		n = notify.Nop()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &JobsService{api: api, notice: n, log: log}
}

// Bookmarks returns the bookmarked jobs. On failure a notice is shown.
func (s *JobsService) Bookmarks(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.api.Bookmarks(ctx)
	if err != nil {
		s.report(ctx, "listing bookmarks", err, MsgBookmarksFailed)
		return nil, err
	}
	return jobs, nil
}

func (s *JobsService) Bookmark(ctx context.Context, jobID models.ID) models.Result {
	if err := s.api.AddBookmark(ctx, jobID); err != nil {
		return models.Fail(s.report(ctx, "bookmarking job", err, MsgBookmarkFailed))
	}
	s.notice.Success(MsgBookmarkOK)
	return models.Ok(MsgBookmarkOK)
}

func (s *JobsService) Unbookmark(ctx context.Context, jobID models.ID) models.Result {
	if err := s.api.RemoveBookmark(ctx, jobID); err != nil {
		return models.Fail(s.report(ctx, "removing bookmark", err, MsgUnbookmarkFailed))
	}
	s.notice.Success(MsgUnbookmarkOK)
	return models.Ok(MsgUnbookmarkOK)
}

// AppliedJobs returns the jobs the user applied to, with application
// status. On failure a notice is shown.
func (s *JobsService) AppliedJobs(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.api.AppliedJobs(ctx)
	if err != nil {
		s.report(ctx, "listing applied jobs", err, MsgAppliedFailed)
		return nil, err
	}
	return jobs, nil
}

// report logs err and shows the backend's message, or fallback when there
// is none. It returns the message shown.
func (s *JobsService) report(ctx context.Context, op string, err error, fallback string) string {
	msg := client.MessageOf(err)
	if msg == "" {
		msg = fallback
	}
	s.log.Warn(ctx, op+" failed", "error", err, "status", client.StatusOf(err))
	s.notice.Error(msg)
	return msg
}
