package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/richgang/fxpulse/internal/api"
	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/guard"
	"github.com/richgang/fxpulse/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBackend runs a minimal auth backend over httptest.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Code string `json:"code"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body.Code {
		case "RICHGANG2024":
			json.NewEncoder(w).Encode(map[string]string{"token": "owner-token", "role": "owner", "name": "Owner"})
		case "RG-CLIENT01":
			json.NewEncoder(w).Encode(map[string]string{"token": "client-token", "role": "client", "name": "Ayanda"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	mux.HandleFunc("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer owner-token":
			json.NewEncoder(w).Encode(map[string]any{"valid": true, "role": "owner", "name": "Owner"})
		case "Bearer client-token":
			json.NewEncoder(w).Encode(map[string]any{"valid": true, "role": "client", "name": "Ayanda"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// wire builds the full client/session pair the way the CLI does.
func wire(t *testing.T, srv *httptest.Server, tokenPath string) (*Manager, *token.Store) {
	t.Helper()
	store, err := token.NewStore(tokenPath)
	require.NoError(t, err)

	client := api.NewClient(srv.URL, 2*time.Second, nil, nil)
	mgr := NewManager(store, client, nil)
	client.SetHeaderSource(mgr)
	return mgr, store
}

func TestSession_OwnerLoginFlow(t *testing.T) {
	srv := startBackend(t)
	tokenPath := filepath.Join(t.TempDir(), "token")
	mgr, store := wire(t, srv, tokenPath)
	ctx := context.Background()

	id, err := mgr.Login(ctx, "RICHGANG2024")
	require.NoError(t, err)
	assert.Equal(t, core.Identity{Role: core.RoleOwner, Name: "Owner"}, id)

	persisted, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "owner-token", persisted)

	// Owner-gated views open for the owner
	assert.Equal(t, guard.DecisionAllow, guard.Check(mgr, core.RoleOwner))
}

func TestSession_InvalidCodePersistsNothing(t *testing.T) {
	srv := startBackend(t)
	mgr, store := wire(t, srv, filepath.Join(t.TempDir(), "token"))

	_, err := mgr.Login(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, core.ErrInvalidCredentials))

	_, ok := store.Get()
	assert.False(t, ok)
	assert.Equal(t, guard.DecisionLogin, guard.Check(mgr, ""))
}

func TestSession_ClientBlockedFromOwnerViews(t *testing.T) {
	srv := startBackend(t)
	mgr, _ := wire(t, srv, filepath.Join(t.TempDir(), "token"))

	_, err := mgr.Login(context.Background(), "RG-CLIENT01")
	require.NoError(t, err)

	assert.Equal(t, guard.DecisionAllow, guard.Check(mgr, ""))
	assert.Equal(t, guard.DecisionHome, guard.Check(mgr, core.RoleOwner))
}

func TestSession_RestartWithStoredToken(t *testing.T) {
	srv := startBackend(t)
	tokenPath := filepath.Join(t.TempDir(), "token")

	mgr, _ := wire(t, srv, tokenPath)
	_, err := mgr.Login(context.Background(), "RICHGANG2024")
	require.NoError(t, err)

	// A fresh process picks the token up from the store and verifies it.
	fresh, _ := wire(t, srv, tokenPath)
	fresh.Init(context.Background())

	assert.True(t, fresh.IsAuthenticated())
	id, ok := fresh.Identity()
	require.True(t, ok)
	assert.Equal(t, "Owner", id.Name)
}

func TestSession_RestartWithRevokedToken(t *testing.T) {
	srv := startBackend(t)
	tokenPath := filepath.Join(t.TempDir(), "token")

	store, err := token.NewStore(tokenPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("revoked-token"))

	mgr, _ := wire(t, srv, tokenPath)
	mgr.Init(context.Background())

	assert.False(t, mgr.IsAuthenticated())
	_, ok := store.Get()
	assert.False(t, ok, "revoked token must be purged from the store")
}
