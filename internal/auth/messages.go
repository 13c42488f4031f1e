package auth

// SessionChangedMsg is delivered to the root model whenever the session is
// replaced, including events from a delegated identity provider. Session is
// nil when the user is signed out.
type SessionChangedMsg struct {
	Session *Session
}

// ExpiredMsg is emitted by any screen whose backend call was rejected with
// an authorization failure. The root model reacts with the shared logout
// routine: clear the session and return to the login screen. It is never
// shown as an inline error.
type ExpiredMsg struct{}

// SignOutMsg requests an explicit user-initiated logout.
type SignOutMsg struct{}
