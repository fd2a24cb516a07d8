package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

const selectPost = `SELECT
	p.id, p.content, p.created_at, p.updated_at, u.id, u.username, u.email
	FROM posts p
	JOIN users u ON p.user_id = u.id`

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) repository.Post {
	return &postRepo{
		db: db,
	}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		id        int64
		userID    int64
		updatedAt *time.Time
		post      model.Post
	)
	if err := row.Scan(
		&id,
		&post.Text,
		&post.CreatedAt,
		&updatedAt,
		&userID,
		&post.Author.Username,
		&post.Author.Email,
	); err != nil {
		return nil, err
	}

	post.ID = formatID(id)
	post.Author.ID = formatID(userID)
	post.UpdatedAt = updatedAt
	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	userID, err := parseID(post.Author.ID)
	if err != nil {
		return nil, err
	}

	var id int64
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(user_id, content, created_at) VALUES($1, $2, $3) RETURNING id",
		userID,
		post.Text,
		post.CreatedAt,
	).Scan(&id); err != nil {
		return nil, mapErr(err)
	}

	return r.FindByID(ctx, formatID(id))
}

func (r *postRepo) FindByID(ctx context.Context, id model.ID) (*model.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	post, err := scanPost(r.db.QueryRow(ctx, selectPost+" WHERE p.id = $1", postID))
	if err != nil {
		return nil, mapErr(err)
	}
	return post, nil
}

func (r *postRepo) FindPage(ctx context.Context, authorID model.ID, limit int, offset int) ([]*model.Post, int, error) {
	var author *int64
	if authorID != "" {
		id, err := parseID(authorID)
		if err != nil {
			return []*model.Post{}, 0, nil
		}
		author = &id
	}

	var total int
	if err := r.db.QueryRow(
		ctx,
		"SELECT count(*) FROM posts WHERE $1::bigint IS NULL OR user_id = $1",
		author,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	if offset < 0 || limit <= 0 {
		return []*model.Post{}, total, nil
	}

	rows, err := r.db.Query(
		ctx,
		selectPost+`
		WHERE $1::bigint IS NULL OR p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2
		OFFSET $3`,
		author,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) UpdateText(ctx context.Context, id model.ID, text string, updatedAt time.Time) (*model.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET content = $1, updated_at = GREATEST($2, created_at) WHERE id = $3",
		text,
		updatedAt,
		postID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *postRepo) Delete(ctx context.Context, id model.ID) error {
	postID, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
