package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/loader"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/repositories/metadata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupRepo(t *testing.T) (*metadata.SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP
);
`)
	require.NoError(t, err)
	return metadata.NewSQLiteRepository(db), db
}

func countMeta(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	return n
}

func validUser() *models.SessionUser {
	return &models.SessionUser{
		ID:          "u1",
		Name:        "Ann",
		Email:       "ann@example.com",
		Phone:       "123456",
		Viber:       "ann_viber",
		AccessToken: "tok-1",
	}
}

// ---- fake client ----

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	mu sync.Mutex

	SignInRet *models.SessionUser
	SignInErr error
	SignUpRet *models.SessionUser
	SignUpErr error
	UpdateRet *models.SessionUser
	UpdateErr error

	// OnUpdate runs after UpdateProfile captured its arguments, before it
	// answers.
	OnUpdate func()

	// argument capture
	Calls           int
	LastToken       string
	LastUserID      string
	LastPatch       models.ProfilePatch
	LastSignInEmail string
}

func (f *fakeClient) SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastSignInEmail = req.Email
	return f.SignInRet.Clone(), f.SignInErr
}

func (f *fakeClient) SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	return f.SignUpRet.Clone(), f.SignUpErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token, userID string, patch models.ProfilePatch) (*models.SessionUser, error) {
	f.mu.Lock()
	f.Calls++
	f.LastToken, f.LastUserID, f.LastPatch = token, userID, patch
	ret, err, hook := f.UpdateRet.Clone(), f.UpdateErr, f.OnUpdate
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return ret, err
}

func (f *fakeClient) UserAlerts(ctx context.Context, token, owner string) ([]models.Alert, error) {
	return nil, errors.New("not used")
}

func (f *fakeClient) UserComments(ctx context.Context, token, userID string) ([]models.Comment, error) {
	return nil, errors.New("not used")
}

// ---- fake repository ----

// brokenRepo fails every write.
type brokenRepo struct{ metadata.Repository }

func (brokenRepo) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk full")
}

func (brokenRepo) Delete(ctx context.Context, key string) error {
	return errors.New("disk full")
}

func (brokenRepo) Clear(ctx context.Context) error {
	return errors.New("disk full")
}

// ---- tracker collaborators ----

type fakeProgress struct {
	mu    sync.Mutex
	begun int
	ended map[loader.Token]int
}

func (p *fakeProgress) Begin() loader.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun++
	return loader.Token(uuid.NewString())
}

func (p *fakeProgress) End(tok loader.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended == nil {
		p.ended = make(map[loader.Token]int)
	}
	p.ended[tok]++
}

func (p *fakeProgress) endCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.ended {
		n += c
	}
	return n
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errs      []error
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) Error(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

// fakeSession holds a single token; LogoutIfToken clears it on a match.
type fakeSession struct {
	token   string
	logouts int
	asked   []string
}

func (s *fakeSession) LogoutIfToken(ctx context.Context, token string) bool {
	s.asked = append(s.asked, token)
	if s.token == "" || s.token != token {
		return false
	}
	s.token = ""
	s.logouts++
	return true
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
