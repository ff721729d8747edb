package client

import "fmt"

// APIError reports a non-2xx status from the SRU endpoint.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %s for %s", e.Status, e.URL)
}

// Authentication reports whether the server refused access.
func (e *APIError) Authentication() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// RateLimited reports whether the server throttled the request.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == 429
}

// Server reports whether the endpoint failed internally.
func (e *APIError) Server() bool {
	return e.StatusCode >= 500
}

// Hint returns operator guidance for common failure classes, empty when
// there is nothing useful to say.
func (e *APIError) Hint() string {
	switch {
	case e.Authentication():
		return "the endpoint refused access: it may require an API key or the address may be blocked, try another profile or provide credentials"
	case e.RateLimited():
		return "the endpoint is throttling requests, lower the request rate or try again later"
	case e.Server():
		return "the endpoint failed internally, try again later or pick another profile"
	}
	return ""
}
