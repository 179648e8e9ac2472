// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package auth checks SSH credentials against the honeypot's configured
// decoy password and a persistent accepted-password store, and scores
// password strength at config load time.
package auth

import (
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/duskwatch/sshpot/internal/errors"
)

var acceptedBucket = []byte("accepted_passwords")

// Store is the persistent accepted-password key-value store: keyed on
// password plaintext, any non-empty value means "accepted". Writes
// happen out of band (an operator tool adding passwords observed in
// the wild); authentication only ever reads it.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens (creating if absent) the accepted-password store at
// <dataDir>/accepted_passwords.db. bbolt serialises concurrent access
// internally, so callers need no external locking.
func OpenStore(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "accepted_passwords.db")
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "open accepted-password store at %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(acceptedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.KindInternal, "initialize accepted-password bucket")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Accepted reports whether password has a non-empty entry in the
// store. Lookups are read-only during authentication.
func (s *Store) Accepted(password string) bool {
	var ok bool
	s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(acceptedBucket).Get([]byte(password))
		ok = len(v) > 0
		return nil
	})
	return ok
}

// Add records password as accepted. Intended for an out-of-band
// operator tool, not the authentication path.
func (s *Store) Add(password string) error {
	if password == "" {
		return errors.New(errors.KindValidation, "password must not be empty")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(acceptedBucket).Put([]byte(password), []byte{1})
	})
}

// Remove deletes password from the store, if present.
func (s *Store) Remove(password string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(acceptedBucket).Delete([]byte(password))
	})
}

// Checker is the password half of the login rule: username must be
// root (checked by the caller), password must match either the
// configured plaintext or an entry in the accepted-password store.
type Checker struct {
	configured string
	store      *Store
}

// NewChecker builds a Checker against the operator's configured decoy
// password and the persistent accepted-password store.
func NewChecker(configuredPassword string, store *Store) *Checker {
	return &Checker{configured: configuredPassword, store: store}
}

// Check reports whether password is acceptable for login.
func (c *Checker) Check(password string) bool {
	if c.configured != "" && password == c.configured {
		return true
	}
	if c.store == nil {
		return false
	}
	return c.store.Accepted(password)
}
