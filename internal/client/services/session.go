package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/petalert/internal/client/client"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petalert/internal/common"
	"github.com/dmitrijs2005/petalert/internal/cryptox"
	"github.com/dmitrijs2005/petalert/internal/logging"
	"github.com/go-playground/validator/v10"
)

// ErrIncompleteUser is returned when the server answers a session request
// with a user record lacking an id, email or access token.
var ErrIncompleteUser = errors.New("server returned an incomplete user")

// SessionService is the session store. It owns the signed-in user, keeps it
// in memory for the lifetime of the process and mirrors it to the metadata
// repository under common.SessionStorageKey.
//
// Invariants:
//   - The in-memory user is either nil or Valid.
//   - A failed SignIn, SignUp or UpdateProfile leaves the prior state
//     (memory and storage) untouched.
//   - Restore trusts the persisted token; it is not checked with the server.
type SessionService struct {
	api      client.Client
	repo     metadata.Repository
	log      logging.Logger
	validate *validator.Validate

	mu   sync.RWMutex
	user *models.SessionUser
}

// NewSessionService constructs a SessionService with no user installed.
// Call Restore to pick up a persisted session.
func NewSessionService(api client.Client, repo metadata.Repository, log logging.Logger) *SessionService {
	if log == nil {
		log = logging.Discard()
	}
	return &SessionService{
		api:      api,
		repo:     repo,
		log:      log.With("component", "session"),
		validate: newValidator(),
	}
}

// Current returns a snapshot of the signed-in user, or nil.
func (s *SessionService) Current() *models.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// LoggedIn reports whether a user is installed.
func (s *SessionService) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *SessionService) SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error) {
	if err := validateInput(s.validate, req); err != nil {
		return nil, err
	}

	u, err := s.api.SignIn(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := s.install(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "signed in", "user_id", u.ID, "token", cryptox.Fingerprint(u.AccessToken))
	return u.Clone(), nil
}

func (s *SessionService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error) {
	if err := validateInput(s.validate, req); err != nil {
		return nil, err
	}

	u, err := s.api.SignUp(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	if err := s.install(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "signed up", "user_id", u.ID, "token", cryptox.Fingerprint(u.AccessToken))
	return u.Clone(), nil
}

// UpdateProfile sends patch for the signed-in user and replaces the stored
// user wholesale with the server's answer. Only the access token is carried
// over, and only when the answer omits it.
func (s *SessionService) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.SessionUser, error) {
	cur := s.Current()
	if cur == nil {
		return nil, common.ErrNotLoggedIn
	}
	if err := validateInput(s.validate, patch); err != nil {
		return nil, err
	}

	u, err := s.api.UpdateProfile(ctx, cur.AccessToken, cur.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if u.AccessToken == "" {
		u.AccessToken = cur.AccessToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// logged out or signed in again while the request was in flight
	if s.user == nil || s.user.AccessToken != cur.AccessToken {
		return nil, common.ErrNotLoggedIn
	}
	if err := s.installLocked(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "profile updated", "user_id", u.ID)
	return u.Clone(), nil
}

// Logout clears the user and the persisted entry. It always succeeds: a
// failure to remove the persisted entry is logged and the in-memory session
// is gone regardless.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked(ctx)
}

// LogoutIfToken logs out only while token is still the current session's
// token. A rejection of an older token must not end a newer session.
func (s *SessionService) LogoutIfToken(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.AccessToken != token {
		return false
	}
	s.logoutLocked(ctx)
	return true
}

// Reset logs out and removes every locally stored entry.
func (s *SessionService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked(ctx)
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear local storage: %w", err)
	}
	return nil
}

func (s *SessionService) logoutLocked(ctx context.Context) {
	was := s.user
	s.user = nil

	if err := s.repo.Delete(ctx, common.SessionStorageKey); err != nil {
		s.log.Error(ctx, "failed to remove persisted session", "error", err)
	}
	if was != nil {
		s.log.Info(ctx, "logged out", "user_id", was.ID, "token", cryptox.Fingerprint(was.AccessToken))
	}
}

// Restore installs the persisted user, if any. A missing entry yields
// (nil, nil). A corrupt or incomplete entry is removed and also yields
// (nil, nil).
func (s *SessionService) Restore(ctx context.Context) (*models.SessionUser, error) {
	raw, err := s.repo.Get(ctx, common.SessionStorageKey)
	if err != nil {
		return nil, fmt.Errorf("read persisted session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var u models.SessionUser
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		s.log.Warn(ctx, "discarding invalid persisted session", "error", err)
		if err := s.repo.Delete(ctx, common.SessionStorageKey); err != nil {
			return nil, fmt.Errorf("remove invalid session: %w", err)
		}
		return nil, nil
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored", "user_id", u.ID, "token", cryptox.Fingerprint(u.AccessToken))
	return u.Clone(), nil
}

func (s *SessionService) install(ctx context.Context, u *models.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(ctx, u)
}

// installLocked persists u and then makes it current. s.mu must be held.
func (s *SessionService) installLocked(ctx context.Context, u *models.SessionUser) error {
	if !u.Valid() {
		return ErrIncompleteUser
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, common.SessionStorageKey, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.user = u.Clone()
	return nil
}
