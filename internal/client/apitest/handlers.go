package apitest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const tokenTTL = time.Hour

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	b.mu.Lock()
	_, exists := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if exists {
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleJobSeeker
	}
	u := b.AddUser(models.User{
		ID:       models.StringID(uuid.NewString()),
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Company:  req.Company,
		Phone:    req.Phone,
		Location: req.Location,
	}, req.Password)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": RegisterMessage,
		"token":   b.IssueToken(u.ID.String(), tokenTTL),
		"user":    u,
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": b.IssueToken(acc.user.ID.String(), tokenTTL),
		"user":  acc.user,
	})
}

func (b *Backend) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := b.User(userIDFrom(r))
	writeJSON(w, http.StatusOK, u)
}

func (b *Backend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	acc := b.byID[userIDFrom(r)]
	u := &acc.user
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Location != "" {
		u.Location = req.Location
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if req.Skills != nil {
		u.Skills = req.Skills
	}
	if req.Company != "" {
		u.Company = req.Company
	}
	if req.Website != "" {
		u.Website = req.Website
	}
	updated := *u
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (b *Backend) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.byID[userIDFrom(r)]
	if acc.password != req.CurrentPassword {
		writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	acc.password = req.NewPassword
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (b *Backend) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	list := append([]models.Notification{}, b.notifications[userIDFrom(r)]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

func (b *Backend) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := userIDFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.notifications[userID] {
		if b.notifications[userID][i].ID.String() == id {
			b.notifications[userID][i].Read = true
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Notification not found")
}

// handleListBookmarks answers with populated jobs, the employer given as an
// object the way the backend populates it.
func (b *Backend) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	list := []map[string]any{}
	for _, id := range b.bookmarks[userIDFrom(r)] {
		j := b.jobs[id]
		list = append(list, map[string]any{
			"_id":      j.ID,
			"title":    j.Title,
			"company":  map[string]any{"name": j.Company},
			"location": j.Location,
			"type":     j.Type,
		})
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "bookmarks": list})
}

func (b *Backend) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	userID := userIDFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.jobs[jobID]; !ok {
		writeMessage(w, http.StatusNotFound, "Job not found")
		return
	}
	if slices.Contains(b.bookmarks[userID], jobID) {
		writeMessage(w, http.StatusBadRequest, "Job already bookmarked")
		return
	}
	b.bookmarks[userID] = append(b.bookmarks[userID], jobID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Job bookmarked"})
}

func (b *Backend) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	userID := userIDFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.bookmarks[userID], jobID)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Bookmark not found")
		return
	}
	b.bookmarks[userID] = slices.Delete(b.bookmarks[userID], i, i+1)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Bookmark removed"})
}

// handleAppliedJobs answers with application records wrapping their job.
func (b *Backend) handleAppliedJobs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	list := []map[string]any{}
	for _, a := range b.applications[userIDFrom(r)] {
		list = append(list, map[string]any{
			"_id":       uuid.NewString(),
			"job":       b.jobs[a.jobID],
			"status":    a.status,
			"appliedAt": a.appliedAt,
		})
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "applications": list})
}
