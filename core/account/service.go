package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stratosedge/portal/core"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		CreateAccount(ctx context.Context, acc Account) (Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		// UpdateAccount saves DisplayName, PasswordHash and LastLogin.
		UpdateAccount(ctx context.Context, acc Account) (Account, error)
	}

	// Service is the identity provider: it signs accounts in and out
	// and publishes every session change to its subscribers.
	Service struct {
		repo     Repository
		policy   passwordPolicy
		attempts *attemptTracker
		broker   *broker

		mu       sync.RWMutex
		sessions map[string]Session // {session ID: Session}
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{
		repo: repo,
		policy: passwordPolicy{
			minLen: conf.Auth.PasswordMinLen,
			maxSim: conf.Auth.PasswordMaxSimilarity,
		},
		attempts: newAttemptTracker(conf.Auth.MaxFailedAttempts, conf.Auth.LockoutWindow),
		broker:   newBroker(),
		sessions: make(map[string]Session),
	}
}

// Subscribe returns a stream of session events. Call Unsubscribe when done.
func (svc *Service) Subscribe() *Subscription {
	return svc.broker.subscribe()
}

// CurrentSession returns the session with the given ID if it is still signed in.
func (svc *Service) CurrentSession(id string) (Session, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	sess, ok := svc.sessions[id]
	return sess, ok
}

func (svc *Service) create(ctx context.Context, na NewAccount) (Account, error) {
	email := core.CleanString(na.Email, true /* lower */)
	name := core.CleanString(na.DisplayName)
	if !validEmail(email) {
		return Account{}, newError(CodeInvalidEmail)
	}
	if svc.policy.weak(na.Password, email, name) {
		return Account{}, newError(CodeWeakPassword)
	}

	acc := Account{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: name,
		CreatedAt:   NowFunc().UTC(),
	}
	if err := acc.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	acc, err := svc.repo.CreateAccount(ctx, acc)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return Account{}, newError(CodeEmailInUse)
		}
		return Account{}, errors.Wrap(err, "creating account")
	}
	return acc, nil
}

// Create adds an account without signing it in.
func (svc *Service) Create(ctx context.Context, na NewAccount) (Account, error) {
	return svc.create(ctx, na)
}

// SignUp creates an account and signs it in.
func (svc *Service) SignUp(ctx context.Context, na NewAccount) (Session, error) {
	acc, err := svc.create(ctx, na)
	if err != nil {
		return Session{}, err
	}
	return svc.startSession(ctx, acc)
}

func (svc *Service) SignIn(ctx context.Context, email, pwd string) (Session, error) {
	email = core.CleanString(email, true /* lower */)
	if !validEmail(email) {
		return Session{}, newError(CodeInvalidEmail)
	}
	now := NowFunc()
	if svc.attempts.blocked(email, now) {
		return Session{}, newError(CodeTooManyRequests)
	}

	acc, err := svc.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Session{}, newError(CodeUserNotFound)
		}
		return Session{}, errors.Wrap(err, "finding account by email")
	}
	if err = acc.CheckPassword(pwd); err != nil {
		svc.attempts.fail(email, now)
		return Session{}, newError(CodeWrongPassword)
	}
	svc.attempts.reset(email)

	return svc.startSession(ctx, acc)
}

func (svc *Service) startSession(ctx context.Context, acc Account) (Session, error) {
	now := NowFunc().UTC()
	acc.LastLogin = null.TimeFrom(now)
	acc, err := svc.repo.UpdateAccount(ctx, acc)
	if err != nil {
		return Session{}, errors.Wrap(err, "setting lastLogin")
	}

	sess := Session{
		ID:          uuid.New().String(),
		UID:         acc.ID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		StartedAt:   now,
	}
	svc.mu.Lock()
	svc.sessions[sess.ID] = sess
	svc.mu.Unlock()

	svc.broker.publish(SignedIn, sess)
	return sess, nil
}

// SignOut ends the session. ErrNoSession is returned when it already ended.
func (svc *Service) SignOut(_ context.Context, sessionID string) error {
	svc.mu.Lock()
	sess, ok := svc.sessions[sessionID]
	delete(svc.sessions, sessionID)
	svc.mu.Unlock()

	if !ok {
		return ErrNoSession
	}
	svc.broker.publish(SignedOut, sess)
	return nil
}

// ExpireSessions signs out every session started before cutoff and returns how many ended.
// Subscribers receive a SignedOut event for each of them.
func (svc *Service) ExpireSessions(cutoff time.Time) int {
	var expired []Session
	svc.mu.Lock()
	for id, sess := range svc.sessions {
		if sess.StartedAt.Before(cutoff) {
			expired = append(expired, sess)
			delete(svc.sessions, id)
		}
	}
	svc.mu.Unlock()

	for _, sess := range expired {
		svc.broker.publish(SignedOut, sess)
	}
	return len(expired)
}

// ReapSessions expires sessions older than maxAge every interval until ctx is done.
func (svc *Service) ReapSessions(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.ExpireSessions(NowFunc().UTC().Add(-maxAge))
		}
	}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.repo.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
}

// ResetPassword sets a new password. Only the minimum length is enforced.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) (Account, error) {
	if len([]rune(pwd)) < svc.policy.minLen {
		return Account{}, newError(CodeWeakPassword)
	}
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if err = acc.SetPassword(pwd); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateAccount(ctx, acc)
}
