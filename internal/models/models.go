package models

// User represents a row from the users table. The password hash is opaque to
// everything except internal/crypto; plaintext passwords are never stored.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Email        *string `json:"email"`
}

// Calendar represents a row from the calendars table. ShareURL is nil while
// the calendar is not shared; a non-nil value is a globally unique token.
type Calendar struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	ShareURL *string `json:"share_url"`
}

// Shared reports whether the calendar currently has a share token.
func (c *Calendar) Shared() bool {
	return c.ShareURL != nil
}

// Event represents a row from the events table. Day is range-checked only,
// never validated against the month or year.
type Event struct {
	ID         int64   `json:"id"`
	CalendarID int64   `json:"calendar_id"`
	Title      string  `json:"title"`
	Month      int     `json:"month"`
	Day        int     `json:"day"`
	Year       *int    `json:"year"`
	Notes      *string `json:"notes"`
	Private    bool    `json:"private"`
}

// SetTitle replaces the event title.
func (e *Event) SetTitle(title string) {
	e.Title = title
}

// SetDate replaces the month and day.
func (e *Event) SetDate(month, day int) {
	e.Month = month
	e.Day = day
}

// SetYear replaces the optional year; nil clears it.
func (e *Event) SetYear(year *int) {
	e.Year = year
}

// SetNotes replaces the optional free-text notes; nil clears them.
func (e *Event) SetNotes(notes *string) {
	e.Notes = notes
}

// SetPrivate toggles the privacy flag.
func (e *Event) SetPrivate(private bool) {
	e.Private = private
}
