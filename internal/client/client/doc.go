// Package client talks to the HireHub REST backend.
//
// # Overview
//
//  1. HTTPClient: a JSON request wrapper bound to the API root, default
//     headers and a timeout (10s by default). It reads the bearer token
//     from a TokenSource on every request and tags each request with an
//     X-Request-ID.
//  2. Policies: every outcome is passed through the configured Policy
//     values. AuthFailurePolicy signs the user out on 401 (demo tokens are
//     exempt); NetworkFailurePolicy shows an "unreachable" notice and
//     leaves the session alone.
//  3. API / HTTPAPI: the typed endpoint contract used by the services.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnauthorized (any 401), ErrUnavailable (connection refused, DNS,
// unreachable network), ErrTimeout, ErrMalformedResponse. Non-2xx answers
// are *APIError values; MessageOf extracts the backend's message.
package client
