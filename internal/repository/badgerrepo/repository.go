// Package badgerrepo stores the backend's data in an embedded badger
// database. Opened in memory it replaces a shared mock database in tests and
// local runs.
package badgerrepo

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

const (
	postKeyPrefix       = "post:"
	userKeyPrefix       = "user:"
	usernameKeyPrefix   = "username:"
	commentKeyPrefix    = "comment:"
	friendshipKeyPrefix = "friendship:"

	postSeqKey       = "seq:post"
	userSeqKey       = "seq:user"
	commentSeqKey    = "seq:comment"
	friendshipSeqKey = "seq:friendship"

	maxConflictRetries = 3
)

// Open opens the database at path, or an in-memory one when path is empty.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

func New(db *badger.DB) *repository.Storage {
	return &repository.Storage{
		Post:       &postRepo{db: db},
		User:       &userRepo{db: db},
		Comment:    &commentRepo{db: db},
		Friendship: &friendshipRepo{db: db},
	}
}

// update runs fn in a read-write transaction. fn is run again when a
// concurrent commit changed a key it read.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = db.Update(fn); !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// nextID bumps the counter at seqKey inside txn, so an id is only taken when
// the write commits.
func nextID(txn *badger.Txn, seqKey string) (model.ID, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return "", err
	default:
		if err := item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return "", err
		}
	}
	id++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return "", err
	}

	return model.ID(strconv.FormatUint(id, 10)), nil
}

func getJSON[T any](txn *badger.Txn, key string) (*T, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var v T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// scanJSON decodes every value under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var out []*T
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// idLess orders decimal ids numerically.
func idLess(a, b model.ID) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
