package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/cryptox"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
	"github.com/dmitrijs2005/socialhub/internal/server/auth"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/dmitrijs2005/socialhub/internal/server/notify"
	"github.com/dmitrijs2005/socialhub/internal/server/oauth"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/socialhub/internal/server/repositories/sessions"
)

// --- accounts ---

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[string]*models.Account

	createErr error
	findErr   error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[string]*models.Account{}}
}

func (f *fakeAccounts) put(a *models.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byID[a.ID] = &cp
}

func (f *fakeAccounts) get(id string) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, other := range f.byID {
		if other.Email == a.Email {
			return &common.DuplicateError{Field: "email"}
		}
		if other.Username == a.Username {
			return &common.DuplicateError{Field: "username"}
		}
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAccounts) find(match func(*models.Account) bool) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, a := range f.byID {
		if match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.ID == id })
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.Email == email })
}

func (f *fakeAccounts) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.Username == username })
}

func (f *fakeAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeAccounts) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	_, err := f.find(func(a *models.Account) bool { return a.Username == username && a.ID != excludeID })
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeAccounts) update(id string, fn func(a *models.Account) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if err := fn(a); err != nil {
		return err
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (f *fakeAccounts) SetEmailVerifyToken(_ context.Context, id, token string) error {
	return f.update(id, func(a *models.Account) error { a.EmailVerifyToken = token; return nil })
}

func (f *fakeAccounts) MarkEmailVerified(_ context.Context, id string) error {
	return f.update(id, func(a *models.Account) error {
		if a.Verify != models.Unverified {
			return common.ErrorNotFound
		}
		a.EmailVerifyToken = ""
		a.Verify = models.Verified
		return nil
	})
}

func (f *fakeAccounts) SetForgotPasswordToken(_ context.Context, id, token string) error {
	return f.update(id, func(a *models.Account) error { a.ForgotPasswordToken = token; return nil })
}

func (f *fakeAccounts) ResetPassword(_ context.Context, id, token, hash string) error {
	err := f.update(id, func(a *models.Account) error {
		if a.ForgotPasswordToken == "" || a.ForgotPasswordToken != token {
			return common.ErrStaleForgotPasswordToken
		}
		a.PasswordHash = hash
		a.ForgotPasswordToken = ""
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrStaleForgotPasswordToken
	}
	return err
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	return f.update(id, func(a *models.Account) error { a.PasswordHash = hash; return nil })
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, id string, p models.ProfilePatch) (*models.Account, error) {
	if p.Username != nil {
		taken, _ := f.UsernameTaken(ctx, *p.Username, id)
		if taken {
			return nil, &common.DuplicateError{Field: "username"}
		}
	}
	err := f.update(id, func(a *models.Account) error {
		if p.Name != nil {
			a.Name = *p.Name
		}
		if p.Bio != nil {
			a.Bio = *p.Bio
		}
		if p.Username != nil {
			a.Username = *p.Username
		}
		if p.DateOfBirth != nil {
			a.DateOfBirth = *p.DateOfBirth
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f.get(id), nil
}

// --- sessions ---

type fakeSessions struct {
	mu      sync.Mutex
	byToken map[string]*models.Session

	createErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]*models.Session{}}
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byToken)
}

func (f *fakeSessions) Create(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byToken[s.Token]; ok {
		return common.ErrorAlreadyExists
	}
	s.ID = "s-" + s.Token[len(s.Token)-8:]
	s.CreatedAt = time.Now()
	cp := *s
	f.byToken[s.Token] = &cp
	return nil
}

func (f *fakeSessions) Find(_ context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, token)
	return nil
}

func (f *fakeSessions) Consume(_ context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.byToken, token)
	return s, nil
}

// --- relationships ---

type fakeRelationships struct {
	mu    sync.Mutex
	edges map[[2]string]*models.Relationship
}

func newFakeRelationships() *fakeRelationships {
	return &fakeRelationships{edges: map[[2]string]*models.Relationship{}}
}

func (f *fakeRelationships) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges)
}

func (f *fakeRelationships) Create(_ context.Context, follower, followed string) (*models.Relationship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{follower, followed}
	if _, ok := f.edges[key]; ok {
		return nil, &common.DuplicateError{Field: "followed_user_id"}
	}
	r := &models.Relationship{ID: follower + ">" + followed, FollowerID: follower, FollowedID: followed, CreatedAt: time.Now()}
	f.edges[key] = r
	return r, nil
}

func (f *fakeRelationships) Find(_ context.Context, follower, followed string) (*models.Relationship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.edges[[2]string{follower, followed}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (f *fakeRelationships) Delete(_ context.Context, follower, followed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{follower, followed}
	if _, ok := f.edges[key]; !ok {
		return common.ErrorNotFound
	}
	delete(f.edges, key)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	a *fakeAccounts
	s *fakeSessions
	r *fakeRelationships
}

func (m *fakeRepoManager) SessionsInTx() bool                              { return true }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return m.a }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository           { return m.s }
func (m *fakeRepoManager) Relationships(dbx.DBTX) relationships.Repository { return m.r }

// --- collaborators ---

// plainHasher keeps tests fast; cryptox is covered by its own tests.
type plainHasher struct{}

func (plainHasher) HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", cryptox.ErrEmptyPassword
	}
	return "plain$" + pw, nil
}

func (plainHasher) ComparePassword(pw, encoded string) error {
	if !strings.HasPrefix(encoded, "plain$") {
		return cryptox.ErrInvalidHash
	}
	if encoded != "plain$"+pw {
		return cryptox.ErrMismatchedPassword
	}
	return nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (n *recordingNotifier) Dispatch(_ context.Context, x notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, x)
}

func (n *recordingNotifier) sent() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.got...)
}

type fakeProvider struct {
	identity *oauth.Identity
	err      error
}

func (p *fakeProvider) Exchange(context.Context, string) (*oauth.Identity, error) {
	return p.identity, p.err
}

// --- fixture ---

type fixture struct {
	svc      *IdentityService
	mock     sqlmock.Sqlmock
	accounts *fakeAccounts
	sessions *fakeSessions
	rels     *fakeRelationships
	notifier *recordingNotifier
	issuer   *auth.Issuer
}

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(map[auth.TokenClass]auth.KeyConfig{
		auth.AccessToken:         {Secret: []byte("access"), TTL: 15 * time.Minute},
		auth.RefreshToken:        {Secret: []byte("refresh"), TTL: 24 * time.Hour},
		auth.EmailVerifyToken:    {Secret: []byte("verify"), TTL: time.Hour},
		auth.ForgotPasswordToken: {Secret: []byte("forgot"), TTL: time.Hour},
	})
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		mock:     mock,
		accounts: newFakeAccounts(),
		sessions: newFakeSessions(),
		rels:     newFakeRelationships(),
		notifier: &recordingNotifier{},
		issuer:   testIssuer(),
	}
	rm := &fakeRepoManager{a: f.accounts, s: f.sessions, r: f.rels}

	opts = append([]Option{WithNotifier(f.notifier)}, opts...)
	f.svc = NewIdentityService(db, rm, f.issuer, plainHasher{}, opts...)
	return f
}

func (f *fixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

// seed stores an account with password "Secret1!".
func (f *fixture) seed(id, email, username string, verify models.VerifyStatus) *models.Account {
	a := &models.Account{
		ID:           id,
		Name:         strings.ToUpper(username[:1]) + username[1:],
		Email:        email,
		PasswordHash: "plain$Secret1!",
		Username:     username,
		Verify:       verify,
	}
	f.accounts.put(a)
	return a
}
