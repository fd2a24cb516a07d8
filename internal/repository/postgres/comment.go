package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) repository.Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	postID, err := parseID(comment.PostID)
	if err != nil {
		return nil, err
	}

	var id int64
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(post_id, username, comment_text, created_at) VALUES($1, $2, $3, $4) RETURNING id",
		postID,
		comment.Username,
		comment.CommentText,
		comment.CreatedAt,
	).Scan(&id); err != nil {
		return nil, mapErr(err)
	}

	comment.ID = formatID(id)
	return &comment, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID model.ID) ([]*model.Comment, error) {
	id, err := parseID(postID)
	if err != nil {
		return []*model.Comment{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.username, c.comment_text, c.created_at
		FROM comments c
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var (
			commentID int64
			comment   model.Comment
		)
		if err := rows.Scan(
			&commentID,
			&comment.Username,
			&comment.CommentText,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comment.ID = formatID(commentID)
		comment.PostID = postID
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
