// Package api defines the JSON shapes of the read API.
package api

// UserResponse is the external view of a user; the password hash never
// leaves storage.
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// EventResponse is the external view of an event
type EventResponse struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Month   int     `json:"month"`
	Day     int     `json:"day"`
	Year    *int    `json:"year"`
	Notes   *string `json:"notes"`
	Private bool    `json:"private"`
}

// ErrorResponse is the error body for non-2xx responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
