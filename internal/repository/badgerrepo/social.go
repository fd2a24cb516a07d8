package badgerrepo

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

type commentRepo struct {
	db *badger.DB
}

func commentKey(postID, id model.ID) string {
	return commentKeyPrefix + string(postID) + ":" + string(id)
}

func (r *commentRepo) Create(_ context.Context, comment model.Comment) (*model.Comment, error) {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := getJSON[postRecord](txn, postKey(comment.PostID)); err != nil {
			return err
		}

		id, err := nextID(txn, commentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		return setJSON(txn, commentKey(comment.PostID, id), comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) FindPostComments(_ context.Context, postID model.ID) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		comments, err = scanJSON[model.Comment](txn, commentKeyPrefix+string(postID)+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*model.Comment{}
	}

	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return idLess(comments[i].ID, comments[j].ID)
	})
	return comments, nil
}

type friendshipRecord struct {
	ID          model.ID               `json:"id"`
	RequesterID model.ID               `json:"requesterId"`
	AddresseeID model.ID               `json:"addresseeId"`
	Status      model.FriendshipStatus `json:"status"`
}

type friendshipRepo struct {
	db *badger.DB
}

func (rec *friendshipRecord) connects(a, b model.ID) bool {
	return (rec.RequesterID == a && rec.AddresseeID == b) || (rec.RequesterID == b && rec.AddresseeID == a)
}

func friendshipKey(id model.ID) string {
	return friendshipKeyPrefix + string(id)
}

func (r *friendshipRepo) toModel(txn *badger.Txn, rec *friendshipRecord) *model.Friendship {
	f := &model.Friendship{
		ID:          rec.ID,
		RequesterID: rec.RequesterID,
		AddresseeID: rec.AddresseeID,
		Status:      rec.Status,
	}
	if u, err := getJSON[userRecord](txn, userKey(rec.RequesterID)); err == nil {
		f.Requester = u.Username
	}
	if u, err := getJSON[userRecord](txn, userKey(rec.AddresseeID)); err == nil {
		f.Addressee = u.Username
	}
	return f
}

func (r *friendshipRepo) Create(_ context.Context, friendship model.Friendship) (*model.Friendship, error) {
	var created *model.Friendship
	err := update(r.db, func(txn *badger.Txn) error {
		for _, userID := range []model.ID{friendship.RequesterID, friendship.AddresseeID} {
			if _, err := getJSON[userRecord](txn, userKey(userID)); err != nil {
				return err
			}
		}

		records, err := scanJSON[friendshipRecord](txn, friendshipKeyPrefix)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.connects(friendship.RequesterID, friendship.AddresseeID) {
				return repository.ErrAlreadyExists
			}
		}

		id, err := nextID(txn, friendshipSeqKey)
		if err != nil {
			return err
		}

		rec := &friendshipRecord{
			ID:          id,
			RequesterID: friendship.RequesterID,
			AddresseeID: friendship.AddresseeID,
			Status:      friendship.Status,
		}
		if err := setJSON(txn, friendshipKey(id), rec); err != nil {
			return err
		}

		created = r.toModel(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *friendshipRepo) FindByID(_ context.Context, id model.ID) (*model.Friendship, error) {
	var f *model.Friendship
	err := r.db.View(func(txn *badger.Txn) error {
		rec, err := getJSON[friendshipRecord](txn, friendshipKey(id))
		if err != nil {
			return err
		}
		f = r.toModel(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *friendshipRepo) FindBetween(_ context.Context, a model.ID, b model.ID) (*model.Friendship, error) {
	var f *model.Friendship
	err := r.db.View(func(txn *badger.Txn) error {
		records, err := scanJSON[friendshipRecord](txn, friendshipKeyPrefix)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.connects(a, b) {
				f = r.toModel(txn, rec)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *friendshipRepo) UpdateStatus(_ context.Context, id model.ID, status model.FriendshipStatus) (*model.Friendship, error) {
	var f *model.Friendship
	err := r.db.Update(func(txn *badger.Txn) error {
		rec, err := getJSON[friendshipRecord](txn, friendshipKey(id))
		if err != nil {
			return err
		}
		rec.Status = status
		if err := setJSON(txn, friendshipKey(id), rec); err != nil {
			return err
		}
		f = r.toModel(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *friendshipRepo) FindAccepted(_ context.Context, userID model.ID) ([]*model.Friendship, error) {
	friendships := []*model.Friendship{}
	err := r.db.View(func(txn *badger.Txn) error {
		records, err := scanJSON[friendshipRecord](txn, friendshipKeyPrefix)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.Status != model.FriendshipAccepted {
				continue
			}
			if rec.RequesterID == userID || rec.AddresseeID == userID {
				friendships = append(friendships, r.toModel(txn, rec))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(friendships, func(i, j int) bool {
		return idLess(friendships[i].ID, friendships[j].ID)
	})
	return friendships, nil
}

var (
	_ repository.Comment    = (*commentRepo)(nil)
	_ repository.Friendship = (*friendshipRepo)(nil)
)
