package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

const (
	PathRegister       = "/auth/register"
	PathLogin          = "/auth/login"
	PathProfile        = "/users/profile"
	PathChangePassword = "/users/change-password"
	PathNotifications  = "/users/notifications"
	PathBookmarks      = "/users/bookmarks"
	PathAppliedJobs    = "/users/applied-jobs"
)

// PathNotificationRead returns /users/notifications/{id}/read with id escaped.
func PathNotificationRead(id models.ID) string {
	return PathNotifications + "/" + url.PathEscape(id.String()) + "/read"
}

// PathBookmark returns /users/bookmark/{jobID} with jobID escaped.
func PathBookmark(jobID models.ID) string {
	return "/users/bookmark/" + url.PathEscape(jobID.String())
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   models.Token `json:"token"`
	User    *models.User `json:"user"`
}

type LoginResponse struct {
	Token models.Token `json:"token"`
	User  *models.User `json:"user"`
}

type profileResponse struct {
	User *models.User `json:"user"`
}

type notificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

// API is the typed contract of the backend endpoints the client consumes.
type API interface {
	Register(ctx context.Context, data models.Registration) (*RegisterResponse, error)
	Login(ctx context.Context, creds models.Credentials) (*LoginResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, data models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, data models.PasswordChange) error
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id models.ID) error
	Bookmarks(ctx context.Context) ([]models.Job, error)
	AddBookmark(ctx context.Context, jobID models.ID) error
	RemoveBookmark(ctx context.Context, jobID models.ID) error
	AppliedJobs(ctx context.Context) ([]models.Job, error)
}

// HTTPAPI implements API on top of HTTPClient.
type HTTPAPI struct {
	c *HTTPClient
}

var _ API = (*HTTPAPI)(nil)

func NewHTTPAPI(c *HTTPClient) *HTTPAPI {
	return &HTTPAPI{c: c}
}

func (a *HTTPAPI) Register(ctx context.Context, data models.Registration) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := a.c.Post(ctx, PathRegister, data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *HTTPAPI) Login(ctx context.Context, creds models.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.c.Post(ctx, PathLogin, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token.IsZero() {
		return nil, fmt.Errorf("%w: login answer carries no token", ErrMalformedResponse)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: login answer carries no user", ErrMalformedResponse)
	}
	return &resp, nil
}

func (a *HTTPAPI) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.c.Get(ctx, PathProfile, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *HTTPAPI) UpdateProfile(ctx context.Context, data models.ProfileUpdate) (*models.User, error) {
	var resp profileResponse
	if err := a.c.Put(ctx, PathProfile, data, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: profile answer carries no user", ErrMalformedResponse)
	}
	return resp.User, nil
}

func (a *HTTPAPI) ChangePassword(ctx context.Context, data models.PasswordChange) error {
	return a.c.Put(ctx, PathChangePassword, data, nil)
}

func (a *HTTPAPI) Notifications(ctx context.Context) ([]models.Notification, error) {
	var resp notificationsResponse
	if err := a.c.Get(ctx, PathNotifications, &resp); err != nil {
		return nil, err
	}
	if resp.Notifications == nil {
		return []models.Notification{}, nil
	}
	return resp.Notifications, nil
}

func (a *HTTPAPI) MarkNotificationRead(ctx context.Context, id models.ID) error {
	return a.c.Put(ctx, PathNotificationRead(id), nil, nil)
}

func (a *HTTPAPI) Bookmarks(ctx context.Context) ([]models.Job, error) {
	return a.jobs(ctx, PathBookmarks)
}

func (a *HTTPAPI) AddBookmark(ctx context.Context, jobID models.ID) error {
	return a.c.Post(ctx, PathBookmark(jobID), nil, nil)
}

func (a *HTTPAPI) RemoveBookmark(ctx context.Context, jobID models.ID) error {
	return a.c.Delete(ctx, PathBookmark(jobID), nil)
}

func (a *HTTPAPI) AppliedJobs(ctx context.Context) ([]models.Job, error) {
	return a.jobs(ctx, PathAppliedJobs)
}

func (a *HTTPAPI) jobs(ctx context.Context, path string) ([]models.Job, error) {
	var list models.JobList
	if err := a.c.Get(ctx, path, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return []models.Job{}, nil
	}
	return list, nil
}
