package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/profile"
)

var ErrUserNotLoaded = errors.New("profile is still loading")

type (
	// Accounts is the identity provider as seen by the bridge.
	Accounts interface {
		Subscribe() *account.Subscription
		CurrentSession(id string) (account.Session, bool)
		SignOut(ctx context.Context, sessionID string) error
	}

	Profiles interface {
		Get(ctx context.Context, uid string) (profile.Profile, error)
		Save(ctx context.Context, uid string, p profile.Profile) error
	}

	Applications interface {
		Submit(ctx context.Context, p profile.Profile, email string, c course.Course) (application.Application, error)
		AppliedCourseIDs(ctx context.Context, email string) ([]int, error)
	}

	// Bridge keeps the Store in sync with session events and the remote stores.
	Bridge struct {
		accounts Accounts
		profiles Profiles
		apps     Applications
		store    *Store
		logger   core.Logger

		ctx    context.Context
		cancel context.CancelFunc
		sub    *account.Subscription
		wg     sync.WaitGroup
		once   sync.Once
	}
)

func NewBridge(accounts Accounts, profiles Profiles, apps Applications, store *Store, logger core.Logger) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		accounts: accounts,
		profiles: profiles,
		apps:     apps,
		store:    store,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (b *Bridge) Store() *Store { return b.store }

// Start subscribes to session events. Each event is handled on its own goroutine.
func (b *Bridge) Start() {
	b.sub = b.accounts.Subscribe()
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range b.sub.Events() {
			ev := ev
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handle(b.ctx, ev)
			}()
		}
	}()
}

// Close unsubscribes and waits for in-flight handlers.
func (b *Bridge) Close() {
	b.once.Do(func() {
		if b.sub != nil {
			b.sub.Unsubscribe()
		}
		b.cancel()
		b.wg.Wait()
	})
}

func (b *Bridge) handle(ctx context.Context, ev account.Event) {
	switch ev.Kind {
	case account.SignedIn:
		b.signedIn(ctx, ev)
	case account.SignedOut:
		if b.store.observe(ev.Session.ID, ev.Seq) {
			b.store.Clear(ev.Session.ID)
		}
	}
}

func (b *Bridge) signedIn(ctx context.Context, ev account.Event) {
	sess := ev.Session
	if _, ok := b.accounts.CurrentSession(sess.ID); !ok {
		return
	}
	if !b.store.observe(sess.ID, ev.Seq) {
		return
	}

	p, found, err := b.fetchProfile(ctx, sess)
	if err != nil {
		b.logger.Error(fmt.Sprintf("fetching profile of %s: %v", sess.UID, err), err, sess)
		return
	}
	applied := b.fetchApplied(ctx, sess)

	if found {
		p.Email = sess.Email
		p.AppliedCourses = applied
	} else {
		p = profile.Seed(sess.DisplayName, sess.Email, applied)
	}

	if _, ok := b.store.dispatchIfCurrent(sess.ID, ev.Seq, UserLoaded{Profile: p}); !ok {
		return // a later event won
	}
	if _, ok := b.accounts.CurrentSession(sess.ID); !ok {
		b.store.Clear(sess.ID) // signed out meanwhile
	}
}

func (b *Bridge) fetchProfile(ctx context.Context, sess account.Session) (profile.Profile, bool, error) {
	p, err := b.profiles.Get(ctx, sess.UID)
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, err
	}
	return p, true, nil
}

// fetchApplied returns the applied course IDs of the session's email, an empty set on failure.
func (b *Bridge) fetchApplied(ctx context.Context, sess account.Session) []int {
	if sess.Email == "" {
		return []int{}
	}
	ids, err := b.apps.AppliedCourseIDs(ctx, sess.Email)
	if err != nil {
		b.logger.Warn(fmt.Sprintf("fetching applied courses of %s: %v", sess.Email, err), err, sess)
		return []int{}
	}
	return ids
}

// Refresh re-fetches the profile and overlays it on the session's state.
// Failures and missing profiles leave the state untouched.
func (b *Bridge) Refresh(ctx context.Context, sess account.Session) State {
	p, err := b.profiles.Get(ctx, sess.UID)
	if err != nil {
		if errors.Cause(err) != profile.ErrNotFound {
			b.logger.Error(fmt.Sprintf("refreshing profile of %s: %v", sess.UID, err), err, sess)
		}
		return b.State(sess)
	}
	return b.store.Dispatch(sess.ID, UserRefreshed{Profile: p, SessionEmail: sess.Email})
}

// SaveProfile applies upd locally, then merge-saves the profile remotely.
// A remote failure is logged; the local edit stays.
func (b *Bridge) SaveProfile(ctx context.Context, sess account.Session, upd profile.Update) (State, error) {
	st := b.store.Dispatch(sess.ID, ProfileEdited{Update: upd, SessionEmail: sess.Email})
	if st.User == nil {
		return st, ErrUserNotLoaded
	}
	if err := b.profiles.Save(ctx, sess.UID, *st.User); err != nil {
		b.logger.Error(fmt.Sprintf("saving profile of %s: %v", sess.UID, err), err, sess)
	}
	return st, nil
}

// SignOut clears the session's state, then signs it out of the provider.
// The state is cleared even if the provider call fails.
func (b *Bridge) SignOut(ctx context.Context, sess account.Session) (State, error) {
	b.store.Clear(sess.ID)
	if err := b.accounts.SignOut(ctx, sess.ID); err != nil {
		return Initial(), errors.Wrap(err, "signing out")
	}
	return Initial(), nil
}

// State returns the session's state, the initial state when none is held.
func (b *Bridge) State(sess account.Session) State {
	if st, ok := b.store.Get(sess.ID); ok {
		return st
	}
	return Initial()
}

// Dispatch applies view intents to the session's state.
func (b *Bridge) Dispatch(sess account.Session, intents ...Intent) State {
	return b.store.Dispatch(sess.ID, intents...)
}
