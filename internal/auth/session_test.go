package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"vitrine/internal/api"
)

type fakeBackend struct {
	mux      *http.ServeMux
	requests atomic.Int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{mux: http.NewServeMux()}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.mux.ServeHTTP(w, r)
}

func newTestSession(t *testing.T, backend http.Handler) (*Session, *TokenStore, string) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	tokens := NewTokenStore(dir)
	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, tokens, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewSession(client, tokens, nil), tokens, dir
}

func TestLogin_PersistsTokenAndFetchesUser(t *testing.T) {
	backend := newFakeBackend()
	backend.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("login must be form-encoded, got %q", ct)
		}
		if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Identifiants invalides"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-abc","token_type":"bearer"}`))
	})
	backend.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"ada@example.com","full_name":"Ada L","is_admin":false}`))
	})

	sess, tokens, dir := newTestSession(t, backend)

	if err := sess.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if sess.State() != StateAuthenticated {
		t.Errorf("state = %s, want authenticated", sess.State())
	}
	if got := sess.User(); got == nil || got.Email != "ada@example.com" {
		t.Errorf("user = %+v", got)
	}
	if tokens.Token() != "tok-abc" {
		t.Errorf("token = %q", tokens.Token())
	}
	if _, err := os.Stat(filepath.Join(dir, tokenFileName)); err != nil {
		t.Errorf("token file should exist: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	backend := newFakeBackend()
	backend.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Identifiants invalides"}`))
	})

	sess, tokens, _ := newTestSession(t, backend)

	err := sess.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
	if sess.State() != StateAnonymous {
		t.Errorf("state = %s, want anonymous", sess.State())
	}
	if tokens.Token() != "" {
		t.Errorf("token must stay empty, got %q", tokens.Token())
	}
}

// FetchMe on a 401 must clear user, token AND the persisted file together.
func TestFetchMe_InvalidTokenSelfHeals(t *testing.T) {
	backend := newFakeBackend()
	backend.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token invalide"}`))
	})

	sess, tokens, dir := newTestSession(t, backend)
	if err := tokens.Set("stale-token"); err != nil {
		t.Fatal(err)
	}

	if err := sess.FetchMe(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if sess.User() != nil {
		t.Error("user must be nil")
	}
	if tokens.Token() != "" {
		t.Error("token must be cleared")
	}
	if _, err := os.Stat(filepath.Join(dir, tokenFileName)); !os.IsNotExist(err) {
		t.Error("persisted token file must be removed")
	}
	if sess.State() != StateAnonymous {
		t.Errorf("state = %s, want anonymous", sess.State())
	}
}

// A restart reconstructs the token from disk but not the user: FetchMe is
// required to repopulate it.
func TestRestart_TokenSurvivesUserDoesNot(t *testing.T) {
	backend := newFakeBackend()
	backend.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-restart" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"email":"ada@example.com","full_name":"Ada L","is_admin":true}`))
	})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	if err := NewTokenStore(dir).Set("tok-restart"); err != nil {
		t.Fatal(err)
	}

	// "Restart": a fresh store over the same directory.
	tokens := NewTokenStore(dir)
	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, tokens, nil)
	if err != nil {
		t.Fatal(err)
	}
	sess := NewSession(client, tokens, nil)

	if !sess.HasToken() {
		t.Fatal("token must be reconstructed from disk")
	}
	if sess.User() != nil {
		t.Fatal("user must not be reconstructed from disk")
	}

	if err := sess.FetchMe(context.Background()); err != nil {
		t.Fatalf("FetchMe: %v", err)
	}
	if got := sess.User(); got == nil || !got.IsAdmin {
		t.Errorf("user = %+v", got)
	}
}

func TestLogout_IdempotentAndOffline(t *testing.T) {
	backend := newFakeBackend()
	sess, tokens, _ := newTestSession(t, backend)
	if err := tokens.Set("tok-x"); err != nil {
		t.Fatal(err)
	}

	sess.Logout()
	stateAfterFirst := sess.State()
	userAfterFirst := sess.User()
	tokenAfterFirst := tokens.Token()

	sess.Logout()
	if sess.State() != stateAfterFirst || sess.User() != userAfterFirst || tokens.Token() != tokenAfterFirst {
		t.Error("second logout changed state")
	}
	if tokens.Token() != "" {
		t.Errorf("token = %q, want empty", tokens.Token())
	}
	if backend.requests.Load() != 0 {
		t.Errorf("logout must not touch the network, saw %d requests", backend.requests.Load())
	}
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	backend := newFakeBackend()
	backend.mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"email":"new@example.com","full_name":"New User","is_admin":false}`))
	})

	sess, tokens, _ := newTestSession(t, backend)
	if err := sess.Register(context.Background(), "new@example.com", "longenough", "New User"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tokens.Token() != "" || sess.State() != StateAnonymous {
		t.Error("register must not create a session")
	}
}
