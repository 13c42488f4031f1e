package auth

// User identifies the logged-in account as reported by the backend.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Session is the authenticated identity held by the client. A Session is
// either fully present (token + user) or absent, never partially populated.
type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Valid reports whether the session carries both a credential and a user.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != "" && (s.User.ID != "" || s.User.Username != "")
}

// Equal reports whether two sessions carry the same credential and user.
// Absent sessions compare equal to each other.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return s.AccessToken == other.AccessToken && s.User == other.User
}

// DisplayName returns the name shown in the header for this session.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.User.Username != "" {
		return s.User.Username
	}
	return s.User.ID
}
