package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Job is the summary of a job posting as it appears in the bookmark and
// applied-jobs lists. Status and AppliedAt are set for applications only.
type Job struct {
	ID        ID        `json:"_id,omitzero"`
	Title     string    `json:"title"`
	Company   string    `json:"company,omitempty"`
	Location  string    `json:"location,omitempty"`
	Type      string    `json:"type,omitempty"`
	Status    string    `json:"status,omitempty"`
	AppliedAt time.Time `json:"appliedAt,omitzero"`
}

type jobAlias Job

// UnmarshalJSON accepts "_id" or "id", a company given as a name or as a
// populated employer object, and an application record wrapping the job
// as {"job": {...}, "status": ...}.
func (j *Job) UnmarshalJSON(b []byte) error {
	var aux struct {
		jobAlias
		PlainID   ID              `json:"id"`
		Company   json.RawMessage `json:"company"`
		Job       json.RawMessage `json:"job"`
		CreatedAt time.Time       `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if len(aux.Job) > 0 && aux.Job[0] == '{' {
		var inner Job
		if err := json.Unmarshal(aux.Job, &inner); err != nil {
			return err
		}
		inner.Status = aux.Status
		inner.AppliedAt = aux.AppliedAt
		if inner.AppliedAt.IsZero() {
			inner.AppliedAt = aux.CreatedAt
		}
		*j = inner
		return nil
	}

	*j = Job(aux.jobAlias)
	if j.ID.IsZero() {
		j.ID = aux.PlainID
	}
	company, err := companyName(aux.Company)
	if err != nil {
		return err
	}
	j.Company = company
	return nil
}

func companyName(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}

	var employer struct {
		Company string `json:"company"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(raw, &employer); err != nil {
		return "", err
	}
	if employer.Company != "" {
		return employer.Company, nil
	}
	return employer.Name, nil
}

// JobList decodes a job list answer: a bare array, or an object carrying
// the list under "bookmarks", "appliedJobs", "applications" or "jobs".
type JobList []Job

func (l *JobList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var jobs []Job
		if err := json.Unmarshal(b, &jobs); err != nil {
			return err
		}
		*l = jobs
		return nil
	}

	var wrapped struct {
		Bookmarks    []Job `json:"bookmarks"`
		AppliedJobs  []Job `json:"appliedJobs"`
		Applications []Job `json:"applications"`
		Jobs         []Job `json:"jobs"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	for _, jobs := range [][]Job{wrapped.Bookmarks, wrapped.AppliedJobs, wrapped.Applications, wrapped.Jobs} {
		if jobs != nil {
			*l = jobs
			return nil
		}
	}
	*l = JobList{}
	return nil
}
