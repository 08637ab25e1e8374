// Package inmemdb keeps every collection in process memory. Used in development and tests.
package inmemdb

import (
	"sync"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

type DB struct {
	mutex        sync.RWMutex
	accounts     map[string]account.Account  // {id: Account}
	profiles     map[string]profile.Profile  // {uid: Profile}
	applications []application.Application   // insertion order
	contacts     []contact.Submission
	faults       map[string]error // {collection: error returned by every call}
}

// Collections
const (
	Accounts           = "accounts"
	Users              = "users"
	Applications       = "applications"
	ContactSubmissions = "contactSubmissions"
)

func NewDB() *DB {
	db := new(DB)
	db.Reset()
	return db
}

// Reset drops all data.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.accounts = make(map[string]account.Account)
	db.profiles = make(map[string]profile.Profile)
	db.applications = nil
	db.contacts = nil
	db.faults = make(map[string]error)
}

// SetFault makes every call on collection fail with err until cleared with a nil err.
func (db *DB) SetFault(collection string, err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if err == nil {
		delete(db.faults, collection)
		return
	}
	db.faults[collection] = err
}

// fault returns the error set on collection. Caller holds the lock.
func (db *DB) fault(collection string) error {
	return db.faults[collection]
}

func (db *DB) Close() error { return nil }
