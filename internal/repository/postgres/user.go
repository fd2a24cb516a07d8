package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

const selectUser = "SELECT u.id, u.username, u.email, u.bio, u.password_hash, u.created_at FROM users u"

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) repository.User {
	return &userRepo{
		db: db,
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		id   int64
		user model.User
	)
	if err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.Bio,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.ID = formatID(id)
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	var id int64
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO users(username, email, bio, password_hash, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id",
		user.Username,
		user.Email,
		user.Bio,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&id); err != nil {
		return nil, mapErr(err)
	}

	user.ID = formatID(id)
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, selectUser+" WHERE u.id = $1", userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUser+" WHERE lower(u.username) = lower($1)", username))
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.Query(ctx, selectUser+" ORDER BY u.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user model.User) (*model.User, error) {
	userID, err := parseID(user.ID)
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(
		ctx,
		"UPDATE users SET username = $1, email = $2, bio = $3 WHERE id = $4",
		user.Username,
		user.Email,
		user.Bio,
		userID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	return r.FindByID(ctx, user.ID)
}

func (r *userRepo) Delete(ctx context.Context, id model.ID) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
