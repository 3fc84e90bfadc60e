package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

func (a *App) Bookmarks(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	jobs, err := a.jobs.Bookmarks(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Bookmarked jobs (%d)\n", len(jobs))
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "  No bookmarked jobs")
	}
	for _, j := range jobs {
		fmt.Fprintf(a.out, "  %-24s %s\n", j.ID.String(), describeJob(j))
	}
	return nil
}

func (a *App) Bookmark(ctx context.Context, jobID string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	return resultErr(a.jobs.Bookmark(ctx, models.StringID(jobID)))
}

func (a *App) Unbookmark(ctx context.Context, jobID string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	return resultErr(a.jobs.Unbookmark(ctx, models.StringID(jobID)))
}

// Applied lists the user's applications with their status.
func (a *App) Applied(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	jobs, err := a.jobs.AppliedJobs(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Applied jobs (%d)\n", len(jobs))
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "  No applications yet")
	}
	for _, j := range jobs {
		status := j.Status
		if status == "" {
			status = "pending"
		}
		fmt.Fprintf(a.out, "  [%s] %s", status, describeJob(j))
		if !j.AppliedAt.IsZero() {
			fmt.Fprintf(a.out, "  (applied %s)", j.AppliedAt.Local().Format(time.DateOnly))
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// describeJob renders "Title at Company, Location (type)", leaving out
// what is unknown.
func describeJob(j models.Job) string {
	s := j.Title
	if s == "" {
		s = "(untitled)"
	}
	if j.Company != "" {
		s += " at " + j.Company
	}
	if j.Location != "" {
		s += ", " + j.Location
	}
	if j.Type != "" {
		s += " (" + j.Type + ")"
	}
	return s
}
