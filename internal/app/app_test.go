package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/screens/dashboard"
	"zrozum/internal/screens/login"
)

type memStorage struct {
	token string
	user  []byte
	set   bool
}

func (s *memStorage) SaveSession(token string, user []byte) error {
	s.token, s.user, s.set = token, user, true
	return nil
}

func (s *memStorage) LoadSession() (string, []byte, bool, error) {
	return s.token, s.user, s.set, nil
}

func (s *memStorage) ClearSession() error {
	s.token, s.user, s.set = "", nil, false
	return nil
}

// wire assembles the full stack against a test backend, the same way cmd/run
// does against the real one.
func wire(t *testing.T, backend http.Handler) (*memStorage, *auth.Manager, *auth.Gateway, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	storage := &memStorage{}
	manager := auth.NewManager(storage)
	client := api.New(srv.URL, manager.Token)
	gateway := auth.NewGateway(auth.NewBackendProvider(client), manager)
	return storage, manager, gateway, client
}

func TestSignInRoutesToDashboardAndFetchesLessons(t *testing.T) {
	var lessonsAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "T",
			"user":         map[string]any{"id": "u-1", "username": "ann", "role": "student"},
		})
	})
	mux.HandleFunc("GET /lessons/", func(w http.ResponseWriter, r *http.Request) {
		lessonsAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	})

	storage, manager, gateway, client := wire(t, mux)
	m := newAppModel(Options{Manager: manager, Gateway: gateway, Client: client})

	_, onLogin := m.router.Active().(*login.LoginScreen)
	require.True(t, onLogin, "logged-out startup must land on the login screen")

	_, err := gateway.SignIn(context.Background(), "ann", "x")
	require.NoError(t, err)

	// The session change arrives as an event; handling it reroutes the view.
	msg := m.nextSessionEvent()()
	changed, ok := msg.(auth.SessionChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "ann", changed.Session.User.Username)

	_, _ = m.Update(changed)
	_, onDashboard := m.router.Active().(*dashboard.DashboardScreen)
	assert.True(t, onDashboard, "sign-in must land on the dashboard")

	// The dashboard's startup fetch has to carry the fresh credential.
	_ = m.router.Active().Init()()
	assert.Equal(t, "Bearer T", lessonsAuth)

	// Write-through: the session survives in durable storage.
	token, _, set, err := storage.LoadSession()
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, "T", token)
}

func TestAuthorizationRejectionTearsSessionDown(t *testing.T) {
	storage, manager, gateway, client := wire(t, http.NotFoundHandler())

	seed := &auth.Session{AccessToken: "stale", User: auth.User{ID: "u-7", Username: "ann"}}
	require.NoError(t, manager.Replace(seed))

	m := newAppModel(Options{Manager: manager, Gateway: gateway, Client: client, Initial: seed})
	_, onDashboard := m.router.Active().(*dashboard.DashboardScreen)
	require.True(t, onDashboard)

	// Any screen reports a 401 the same way; the root model owns the
	// teardown.
	_, cmd := m.Update(auth.ExpiredMsg{})
	require.NotNil(t, cmd)
	_ = cmd()

	msg := m.nextSessionEvent()()
	changed, ok := msg.(auth.SessionChangedMsg)
	require.True(t, ok)
	assert.Nil(t, changed.Session)

	_, _ = m.Update(changed)

	assert.Nil(t, manager.Current())
	_, _, set, err := storage.LoadSession()
	require.NoError(t, err)
	assert.False(t, set, "durable session must be cleared")
	_, onLogin := m.router.Active().(*login.LoginScreen)
	assert.True(t, onLogin, "the view must collapse to login")
}

func TestLogoutKeyCollapsesToLogin(t *testing.T) {
	_, manager, gateway, client := wire(t, http.NotFoundHandler())

	seed := &auth.Session{AccessToken: "T", User: auth.User{ID: "u-3", Username: "bo"}}
	require.NoError(t, manager.Replace(seed))

	m := newAppModel(Options{Manager: manager, Gateway: gateway, Client: client, Initial: seed})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(auth.SignOutMsg)
	require.True(t, ok)

	_, cmd = m.Update(msg.(auth.SignOutMsg))
	require.NotNil(t, cmd)
	_ = cmd()

	_, _ = m.Update(m.nextSessionEvent()().(auth.SessionChangedMsg))

	assert.Nil(t, manager.Current())
	_, onLogin := m.router.Active().(*login.LoginScreen)
	assert.True(t, onLogin)
}
