// Package store persists accounts and the failed-login audit log in an
// embedded bbolt database. Every mutation is a single transaction, so
// readers never observe a partially written document.
package store

import (
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketUsers        = "users"         // key: username -> User JSON
	bucketFailedLogins = "failed_logins" // key: sequence -> FailedLogin JSON
)

// Store wraps the bbolt database backing the credential store.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database at path and ensures all buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketUsers)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketFailedLogins)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
