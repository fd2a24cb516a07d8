package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

const selectFriendship = `SELECT
	f.id, f.requester_id, f.addressee_id, r.username, a.username, f.status
	FROM friendships f
	JOIN users r ON f.requester_id = r.id
	JOIN users a ON f.addressee_id = a.id`

type friendshipRepo struct {
	db *pgxpool.Pool
}

func newFriendshipRepo(db *pgxpool.Pool) repository.Friendship {
	return &friendshipRepo{
		db: db,
	}
}

func scanFriendship(row pgx.Row) (*model.Friendship, error) {
	var (
		id, requesterID, addresseeID int64
		status                       string
		f                            model.Friendship
	)
	if err := row.Scan(
		&id,
		&requesterID,
		&addresseeID,
		&f.Requester,
		&f.Addressee,
		&status,
	); err != nil {
		return nil, err
	}
	f.ID = formatID(id)
	f.RequesterID = formatID(requesterID)
	f.AddresseeID = formatID(addresseeID)
	f.Status = model.FriendshipStatus(status)
	return &f, nil
}

func (r *friendshipRepo) Create(ctx context.Context, friendship model.Friendship) (*model.Friendship, error) {
	requesterID, err := parseID(friendship.RequesterID)
	if err != nil {
		return nil, err
	}
	addresseeID, err := parseID(friendship.AddresseeID)
	if err != nil {
		return nil, err
	}

	var id int64
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO friendships(requester_id, addressee_id, status) VALUES($1, $2, $3) RETURNING id",
		requesterID,
		addresseeID,
		string(friendship.Status),
	).Scan(&id); err != nil {
		return nil, mapErr(err)
	}

	return r.FindByID(ctx, formatID(id))
}

func (r *friendshipRepo) FindByID(ctx context.Context, id model.ID) (*model.Friendship, error) {
	friendshipID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f, err := scanFriendship(r.db.QueryRow(ctx, selectFriendship+" WHERE f.id = $1", friendshipID))
	if err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (r *friendshipRepo) FindBetween(ctx context.Context, a model.ID, b model.ID) (*model.Friendship, error) {
	aID, err := parseID(a)
	if err != nil {
		return nil, err
	}
	bID, err := parseID(b)
	if err != nil {
		return nil, err
	}

	f, err := scanFriendship(r.db.QueryRow(
		ctx,
		selectFriendship+` WHERE (f.requester_id = $1 AND f.addressee_id = $2)
		OR (f.requester_id = $2 AND f.addressee_id = $1)`,
		aID,
		bID,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (r *friendshipRepo) UpdateStatus(ctx context.Context, id model.ID, status model.FriendshipStatus) (*model.Friendship, error) {
	friendshipID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, "UPDATE friendships SET status = $1 WHERE id = $2", string(status), friendshipID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *friendshipRepo) FindAccepted(ctx context.Context, userID model.ID) ([]*model.Friendship, error) {
	id, err := parseID(userID)
	if err != nil {
		return []*model.Friendship{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		selectFriendship+` WHERE f.status = $1 AND (f.requester_id = $2 OR f.addressee_id = $2)
		ORDER BY f.id`,
		string(model.FriendshipAccepted),
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friendships := []*model.Friendship{}
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		friendships = append(friendships, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return friendships, nil
}
