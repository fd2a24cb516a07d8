package badgerrepo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

// userRecord is model.User with the password hash kept.
type userRecord struct {
	ID           model.ID  `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *userRecord) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Bio:          u.Bio,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

type userRepo struct {
	db *badger.DB
}

func userKey(id model.ID) string {
	return userKeyPrefix + string(id)
}

func usernameKey(username string) string {
	return usernameKeyPrefix + strings.ToLower(username)
}

func (r *userRepo) Create(_ context.Context, user model.User) (*model.User, error) {
	var created *model.User
	err := update(r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(usernameKey(user.Username))); err == nil {
			return repository.ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id, err := nextID(txn, userSeqKey)
		if err != nil {
			return err
		}

		rec := &userRecord{
			ID:           id,
			Username:     user.Username,
			Email:        user.Email,
			Bio:          user.Bio,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		}
		if err := setJSON(txn, userKey(id), rec); err != nil {
			return err
		}
		if err := txn.Set([]byte(usernameKey(user.Username)), []byte(id)); err != nil {
			return err
		}

		created = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *userRepo) FindByID(_ context.Context, id model.ID) (*model.User, error) {
	var user *model.User
	err := r.db.View(func(txn *badger.Txn) error {
		rec, err := getJSON[userRecord](txn, userKey(id))
		if err != nil {
			return err
		}
		user = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	var user *model.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernameKey(username)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		rec, err := getJSON[userRecord](txn, userKey(model.ID(id)))
		if err != nil {
			return err
		}
		user = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) FindAll(_ context.Context) ([]*model.User, error) {
	users := []*model.User{}
	err := r.db.View(func(txn *badger.Txn) error {
		records, err := scanJSON[userRecord](txn, userKeyPrefix)
		if err != nil {
			return err
		}
		for _, rec := range records {
			users = append(users, rec.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		return idLess(users[i].ID, users[j].ID)
	})
	return users, nil
}

func (r *userRepo) Update(_ context.Context, user model.User) (*model.User, error) {
	var updated *model.User
	err := r.db.Update(func(txn *badger.Txn) error {
		rec, err := getJSON[userRecord](txn, userKey(user.ID))
		if err != nil {
			return err
		}

		if !strings.EqualFold(rec.Username, user.Username) {
			if _, err := txn.Get([]byte(usernameKey(user.Username))); err == nil {
				return repository.ErrAlreadyExists
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete([]byte(usernameKey(rec.Username))); err != nil {
				return err
			}
		}
		if err := txn.Set([]byte(usernameKey(user.Username)), []byte(user.ID)); err != nil {
			return err
		}

		rec.Username = user.Username
		rec.Email = user.Email
		rec.Bio = user.Bio
		if err := setJSON(txn, userKey(user.ID), rec); err != nil {
			return err
		}

		updated = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the user together with their posts and friendships.
func (r *userRepo) Delete(_ context.Context, id model.ID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		rec, err := getJSON[userRecord](txn, userKey(id))
		if err != nil {
			return err
		}

		posts, err := scanJSON[postRecord](txn, postKeyPrefix)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if p.UserID != id {
				continue
			}
			if err := deletePrefix(txn, commentKeyPrefix+string(p.ID)+":"); err != nil {
				return err
			}
			if err := txn.Delete([]byte(postKey(p.ID))); err != nil {
				return err
			}
		}

		friendships, err := scanJSON[friendshipRecord](txn, friendshipKeyPrefix)
		if err != nil {
			return err
		}
		for _, f := range friendships {
			if f.RequesterID == id || f.AddresseeID == id {
				if err := txn.Delete([]byte(friendshipKey(f.ID))); err != nil {
					return err
				}
			}
		}

		if err := txn.Delete([]byte(usernameKey(rec.Username))); err != nil {
			return err
		}
		return txn.Delete([]byte(userKey(id)))
	})
}

var _ repository.User = (*userRepo)(nil)
