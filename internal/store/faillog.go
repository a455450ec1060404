package store

import (
	"encoding/binary"
	"encoding/json"

	"github.com/numpanel/apiserver/types"
	"go.etcd.io/bbolt"
)

// FailedLoginRepository appends rejected authentication attempts to an
// append-only log. The server never reads the log back; List exists for
// the maintenance CLI.
type FailedLoginRepository struct {
	db *bbolt.DB
}

func NewFailedLoginRepository(s *Store) *FailedLoginRepository {
	return &FailedLoginRepository{db: s.db}
}

func (r *FailedLoginRepository) Append(record types.FailedLogin) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketFailedLogins))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return bucket.Put(key, raw)
	})
}

func (r *FailedLoginRepository) List() ([]types.FailedLogin, error) {
	var records []types.FailedLogin
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketFailedLogins)).ForEach(func(_, raw []byte) error {
			var record types.FailedLogin
			if err := json.Unmarshal(raw, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
