// Package apitest runs an in-process HireHub backend for tests. It serves
// the endpoints the client consumes under /api, issues HS256 JWTs and lets
// tests inject one-shot failures per route.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RegisterMessage = "Registration successful! Please check your email to verify your account."

// Request is what the backend saw for one call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type account struct {
	user     models.User
	password string
}

type failure struct {
	status  int
	message string
}

type application struct {
	jobID     string
	status    string
	appliedAt time.Time
}

type ctxKey struct{}

type Backend struct {
	mu            sync.Mutex
	secret        []byte
	accounts      map[string]*account // by email
	byID          map[string]*account
	notifications map[string][]models.Notification
	jobs          map[string]models.Job
	bookmarks     map[string][]string // user id -> job ids
	applications  map[string][]application
	failures      map[string]failure
	requests      []Request

	server *httptest.Server
}

// New starts a backend that is shut down when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		secret:        []byte(uuid.NewString()),
		accounts:      make(map[string]*account),
		byID:          make(map[string]*account),
		notifications: make(map[string][]models.Notification),
		jobs:          make(map[string]models.Job),
		bookmarks:     make(map[string][]string),
		applications:  make(map[string][]application),
		failures:      make(map[string]failure),
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API root, e.g. http://127.0.0.1:1234/api.
func (b *Backend) URL() string { return b.server.URL + "/api" }

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record, b.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", b.handleRegister)
		r.Post("/auth/login", b.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(b.protect)
			r.Get("/users/profile", b.handleGetProfile)
			r.Put("/users/profile", b.handleUpdateProfile)
			r.Put("/users/change-password", b.handleChangePassword)
			r.Get("/users/notifications", b.handleListNotifications)
			r.Put("/users/notifications/{id}/read", b.handleMarkRead)
			r.Get("/users/bookmarks", b.handleListBookmarks)
			r.Post("/users/bookmark/{jobId}", b.handleAddBookmark)
			r.Delete("/users/bookmark/{jobId}", b.handleRemoveBookmark)
			r.Get("/users/applied-jobs", b.handleAppliedJobs)
		})
	})
	return r
}

// AddUser registers a verified account and returns it with its id set.
func (b *Backend) AddUser(u models.User, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = models.StringID(uuid.NewString())
	}
	acc := &account{user: u, password: password}
	b.accounts[strings.ToLower(u.Email)] = acc
	b.byID[u.ID.String()] = acc
	return u
}

// IssueToken signs a token for userID valid for ttl.
func (b *Backend) IssueToken(userID string, ttl time.Duration) models.Token {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return models.Token(signed)
}

func (b *Backend) AddNotification(userID, message string, read bool) models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := models.Notification{
		ID:        models.StringID(uuid.NewString()),
		Message:   message,
		Read:      read,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	b.notifications[userID] = append(b.notifications[userID], n)
	return n
}

// AddJob publishes a job posting and returns it with its id set.
func (b *Backend) AddJob(j models.Job) models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j.ID.IsZero() {
		j.ID = models.StringID(uuid.NewString())
	}
	b.jobs[j.ID.String()] = j
	return j
}

// Apply records an application of userID to jobID.
func (b *Backend) Apply(userID, jobID, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applications[userID] = append(b.applications[userID], application{
		jobID:     jobID,
		status:    status,
		appliedAt: time.Now().UTC().Truncate(time.Second),
	})
}

// Bookmarked returns the job ids userID has bookmarked.
func (b *Backend) Bookmarked(userID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bookmarks[userID]...)
}

// Fail makes the next request to method+path (path relative to /api)
// answer with status and a {"message": message} body.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// CountRequests counts calls matching method and path.
func (b *Backend) CountRequests(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) User(id string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.byID[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

func (b *Backend) Password(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.byID[id]; ok {
		return acc.password
	}
	return ""
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		b.mu.Lock()
		f, ok := b.failures[key]
		delete(b.failures, key)
		b.mu.Unlock()

		if ok {
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return b.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		b.mu.Lock()
		_, exists := b.byID[claims.Subject]
		b.mu.Unlock()
		if !exists {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.Subject)))
	})
}

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
