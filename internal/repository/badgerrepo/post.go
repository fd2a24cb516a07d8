package badgerrepo

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

// postRecord keeps only the author id; the author snapshot is joined on read.
type postRecord struct {
	ID        model.ID   `json:"id"`
	UserID    model.ID   `json:"userId"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type postRepo struct {
	db *badger.DB
}

func postKey(id model.ID) string {
	return postKeyPrefix + string(id)
}

func (r *postRepo) toPost(txn *badger.Txn, rec *postRecord) *model.Post {
	post := &model.Post{
		ID:        rec.ID,
		Text:      rec.Text,
		Author:    model.UserRef{ID: rec.UserID},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if user, err := getJSON[userRecord](txn, userKey(rec.UserID)); err == nil {
		post.Author.Username = user.Username
		post.Author.Email = user.Email
	}
	return post
}

func (r *postRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	var created *model.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := getJSON[userRecord](txn, userKey(post.Author.ID)); err != nil {
			return err
		}

		id, err := nextID(txn, postSeqKey)
		if err != nil {
			return err
		}

		rec := &postRecord{
			ID:        id,
			UserID:    post.Author.ID,
			Text:      post.Text,
			CreatedAt: post.CreatedAt,
		}
		if err := setJSON(txn, postKey(id), rec); err != nil {
			return err
		}

		created = r.toPost(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postRepo) FindByID(_ context.Context, id model.ID) (*model.Post, error) {
	var post *model.Post
	err := r.db.View(func(txn *badger.Txn) error {
		rec, err := getJSON[postRecord](txn, postKey(id))
		if err != nil {
			return err
		}
		post = r.toPost(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) FindPage(_ context.Context, authorID model.ID, limit int, offset int) ([]*model.Post, int, error) {
	posts := []*model.Post{}
	total := 0
	err := r.db.View(func(txn *badger.Txn) error {
		records, err := scanJSON[postRecord](txn, postKeyPrefix)
		if err != nil {
			return err
		}

		matching := records[:0]
		for _, rec := range records {
			if authorID == "" || rec.UserID == authorID {
				matching = append(matching, rec)
			}
		}
		sort.SliceStable(matching, func(i, j int) bool {
			if !matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
				return matching[i].CreatedAt.After(matching[j].CreatedAt)
			}
			return idLess(matching[j].ID, matching[i].ID)
		})

		total = len(matching)
		if offset < 0 || offset >= total {
			return nil
		}
		end := total
		if limit < total-offset {
			end = offset + limit
		}
		for _, rec := range matching[offset:end] {
			posts = append(posts, r.toPost(txn, rec))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepo) UpdateText(_ context.Context, id model.ID, text string, updatedAt time.Time) (*model.Post, error) {
	var post *model.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		rec, err := getJSON[postRecord](txn, postKey(id))
		if err != nil {
			return err
		}

		if updatedAt.Before(rec.CreatedAt) {
			updatedAt = rec.CreatedAt
		}
		rec.Text = text
		rec.UpdatedAt = &updatedAt
		if err := setJSON(txn, postKey(id), rec); err != nil {
			return err
		}

		post = r.toPost(txn, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) Delete(_ context.Context, id model.ID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := getJSON[postRecord](txn, postKey(id)); err != nil {
			return err
		}
		if err := deletePrefix(txn, commentKeyPrefix+string(id)+":"); err != nil {
			return err
		}
		return txn.Delete([]byte(postKey(id)))
	})
}

func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	var keys [][]byte
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

var _ repository.Post = (*postRepo)(nil)
