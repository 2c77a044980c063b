package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"vitrine/internal/api"
)

// State is the session lifecycle phase.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// ErrInvalidCredentials is returned by Login on a 401/403.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// User is the account behind the current session.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Session is the process-wide auth store. Invariant: user is non-nil only
// while a validated token is present; any auth failure clears both together,
// never one without the other.
type Session struct {
	client *api.Client
	tokens *TokenStore
	logger *zap.Logger

	mu    sync.RWMutex
	state State
	user  *User
}

// NewSession builds the store. A token reconstructed from disk leaves the
// session anonymous until FetchMe validates it; the two are deliberately
// decoupled across restarts.
func NewSession(client *api.Client, tokens *TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client: client,
		tokens: tokens,
		logger: logger.Named("auth"),
		state:  StateAnonymous,
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the validated current user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token exposes the persisted bearer token ("" when anonymous).
func (s *Session) Token() string { return s.tokens.Token() }

// HasToken reports whether a token exists, validated or not. After a restart
// this can be true while User() is still nil.
func (s *Session) HasToken() bool { return s.tokens.Token() != "" }

// Login submits credentials form-encoded, persists the returned token, then
// immediately validates it to populate the user. On 401/403 the state stays
// anonymous and ErrInvalidCredentials wraps the server detail.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setState(StateAuthenticating)

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp loginResponse
	if err := s.client.PostForm(ctx, "/auth/login", form, &resp); err != nil {
		s.setState(StateAnonymous)
		if api.IsAuth(err) {
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}

	if err := s.tokens.Set(resp.AccessToken); err != nil {
		s.setState(StateAnonymous)
		return fmt.Errorf("login: persist token: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("email", email))
	return s.FetchMe(ctx)
}

// Register creates an account. It does not authenticate; callers follow up
// with Login. Validation failures (duplicate email, weak password) surface
// verbatim from the server.
func (s *Session) Register(ctx context.Context, email, password, fullName string) error {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}
	if err := s.client.Post(ctx, "/auth/register", body, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info("account registered", zap.String("email", email))
	return nil
}

// FetchMe validates the current token by loading the user behind it. On any
// failure the user, the token and the persisted file are all cleared: a stale
// token never outlives the request that exposed it.
func (s *Session) FetchMe(ctx context.Context) error {
	if !s.HasToken() {
		s.invalidate()
		return fmt.Errorf("fetch me: %w", ErrInvalidCredentials)
	}

	var user User
	if err := s.client.Get(ctx, "/auth/me", nil, &user); err != nil {
		s.logger.Warn("session validation failed, clearing token", zap.Error(err))
		s.invalidate()
		return fmt.Errorf("fetch me: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()
	return nil
}

// Logout clears the token and user synchronously and unconditionally. No
// network call; calling it twice is the same as calling it once.
func (s *Session) Logout() {
	s.invalidate()
	s.logger.Info("logged out")
}

func (s *Session) invalidate() {
	s.tokens.Clear()
	s.mu.Lock()
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
