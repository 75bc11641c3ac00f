package session

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/guard"
	"github.com/angelmondragon/marketplace-backend/internal/users"
)

// MsgInvalidCredentials is shown when login credentials do not match.
const MsgInvalidCredentials = "Invalid email or password."

// State is a session snapshot. Transitions return a new value and never
// mutate the receiver.
type State struct {
	ID            string         `json:"id"`
	Authenticated bool           `json:"authenticated"`
	User          *users.Profile `json:"user"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	ReturnTo      string         `json:"returnTo,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// LoginStart marks a login in flight and clears any previous error.
func (s State) LoginStart() State {
	s.Loading = true
	s.Error = ""
	return s
}

// LoginSuccess authenticates the session as user.
func (s State) LoginSuccess(user users.Profile) State {
	s.Authenticated = true
	s.User = &user
	s.Loading = false
	s.Error = ""
	return s
}

// LoginFailure leaves the session unauthenticated with msg.
func (s State) LoginFailure(msg string) State {
	s.Authenticated = false
	s.User = nil
	s.Loading = false
	s.Error = msg
	return s
}

// Abandon drops an in-flight login whose initiator went away.
func (s State) Abandon() State {
	s.Authenticated = false
	s.User = nil
	s.Loading = false
	return s
}

// Logout clears the authenticated user.
func (s State) Logout() State {
	s.Authenticated = false
	s.User = nil
	s.Loading = false
	s.Error = ""
	s.ReturnTo = ""
	return s
}

// RegisterSuccess acknowledges a registration; authentication is unchanged.
func (s State) RegisterSuccess() State {
	return s
}

// RememberReturnTo records where to go after the next successful login.
func (s State) RememberReturnTo(path string) State {
	s.ReturnTo = path
	return s
}

// ConsumeReturnTo picks the post-login destination: explicit from, then the
// remembered path, then the dashboard. The remembered path is cleared.
func (s State) ConsumeReturnTo(from string) (State, string) {
	target := guard.PathDashboard
	switch {
	case from != "":
		target = from
	case s.ReturnTo != "":
		target = s.ReturnTo
	}
	s.ReturnTo = ""
	return s, target
}

// Viewer exposes the fields the route guard reads.
func (s State) Viewer() guard.Viewer {
	v := guard.Viewer{Loading: s.Loading, Authenticated: s.Authenticated}
	if s.User != nil {
		v.Role = s.User.Role
	}
	return v
}

// UserID returns the authenticated user's id or empty.
func (s State) UserID() string {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.ID
}
