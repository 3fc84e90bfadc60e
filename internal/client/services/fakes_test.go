package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/hirehub/internal/client/client"
	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

// fakeAPI implements client.API for unit tests. Hook fields, when set,
// take precedence over the canned results.
type fakeAPI struct {
	mu sync.Mutex

	RegisterRet *client.RegisterResponse
	RegisterErr error

	LoginRet *client.LoginResponse
	LoginErr error

	ProfileRet  *models.User
	ProfileErr  error
	ProfileHook func(ctx context.Context) (*models.User, error)

	UpdateRet *models.User
	UpdateErr error

	PasswordErr error

	NotificationsRet  []models.Notification
	NotificationsErr  error
	NotificationsHook func(ctx context.Context) ([]models.Notification, error)

	MarkErr error

	BookmarksRet   []models.Job
	BookmarksErr   error
	AddBookmarkErr error
	RemoveErr      error
	AppliedRet     []models.Job
	AppliedErr     error

	// recorded arguments
	LastRegistration models.Registration
	LastCredentials  models.Credentials
	LastUpdate       models.ProfileUpdate
	LastPassword     models.PasswordChange
	Marked           []models.ID
	Bookmarked       []models.ID
	Unbookmarked     []models.ID

	calls map[string]int
}

var _ client.API = (*fakeAPI)(nil)

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Register(_ context.Context, data models.Registration) (*client.RegisterResponse, error) {
	f.hit("register")
	f.mu.Lock()
	f.LastRegistration = data
	f.mu.Unlock()
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) Login(_ context.Context, creds models.Credentials) (*client.LoginResponse, error) {
	f.hit("login")
	f.mu.Lock()
	f.LastCredentials = creds
	f.mu.Unlock()
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	f.hit("profile")
	if f.ProfileHook != nil {
		return f.ProfileHook(ctx)
	}
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, data models.ProfileUpdate) (*models.User, error) {
	f.hit("update")
	f.mu.Lock()
	f.LastUpdate = data
	f.mu.Unlock()
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeAPI) ChangePassword(_ context.Context, data models.PasswordChange) error {
	f.hit("password")
	f.mu.Lock()
	f.LastPassword = data
	f.mu.Unlock()
	return f.PasswordErr
}

func (f *fakeAPI) Notifications(ctx context.Context) ([]models.Notification, error) {
	f.hit("notifications")
	if f.NotificationsHook != nil {
		return f.NotificationsHook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NotificationsErr != nil {
		return nil, f.NotificationsErr
	}
	return append([]models.Notification{}, f.NotificationsRet...), nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id models.ID) error {
	f.hit("mark")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MarkErr != nil {
		return f.MarkErr
	}
	f.Marked = append(f.Marked, id)
	return nil
}

func (f *fakeAPI) setNotifications(list []models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.NotificationsRet = list
}

func (f *fakeAPI) Bookmarks(context.Context) ([]models.Job, error) {
	f.hit("bookmarks")
	return f.BookmarksRet, f.BookmarksErr
}

func (f *fakeAPI) AddBookmark(_ context.Context, jobID models.ID) error {
	f.hit("bookmark")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Bookmarked = append(f.Bookmarked, jobID)
	return f.AddBookmarkErr
}

func (f *fakeAPI) RemoveBookmark(_ context.Context, jobID models.ID) error {
	f.hit("unbookmark")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Unbookmarked = append(f.Unbookmarked, jobID)
	return f.RemoveErr
}

func (f *fakeAPI) AppliedJobs(context.Context) ([]models.Job, error) {
	f.hit("applied")
	return f.AppliedRet, f.AppliedErr
}
