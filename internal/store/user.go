package store

import (
	"encoding/json"
	"time"

	"github.com/numpanel/apiserver/types"
	"go.etcd.io/bbolt"
)

// UserRepository handles persistence for accounts.
type UserRepository struct {
	db *bbolt.DB
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{db: s.db}
}

func (r *UserRepository) GetByUsername(username string) (types.User, error) {
	var user types.User
	err := r.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketUsers)).Get([]byte(username))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &user)
	})
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(user types.User) (types.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketUsers))
		if bucket.Get([]byte(user.Username)) != nil {
			return ErrExists
		}
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(user.Username), raw)
	})
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Update overwrites an existing account record. Used only for the
// bootstrap hash rotation; accounts are otherwise add/delete only.
func (r *UserRepository) Update(user types.User) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketUsers))
		if bucket.Get([]byte(user.Username)) == nil {
			return ErrNotFound
		}
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(user.Username), raw)
	})
}

func (r *UserRepository) Delete(username string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketUsers))
		if bucket.Get([]byte(username)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(username))
	})
}

func (r *UserRepository) List() ([]types.User, error) {
	var users []types.User
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketUsers)).ForEach(func(_, raw []byte) error {
			var user types.User
			if err := json.Unmarshal(raw, &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count() (int, error) {
	var count int
	err := r.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(bucketUsers)).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
