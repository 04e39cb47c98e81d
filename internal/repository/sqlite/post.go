package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/restro-server/internal/apperror"
	"github.com/sakif/restro-server/internal/model"
	"github.com/sakif/restro-server/internal/repository"
)

// PostRepo implements repository.PostRepository over the shared database.
type PostRepo struct {
	db *DB
}

var _ repository.PostRepository = (*PostRepo)(nil)

// Create inserts a new post.
//
// The pointer receiver on post matters: Create assigns the generated ID and
// timestamps in place, so the caller gets the persisted record back without
// a second query.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, content, price, quantity, category, location, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Content,
		post.Price,
		post.Quantity,
		post.Category,
		post.Location,
		post.ImageURL,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post by its ID.
// Returns apperror.ErrNotFound when no such post exists — the service layer
// uses that to distinguish 404 from 403 on edits and deletes.
func (r *PostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, price, quantity, category, location, image_url, created_at, updated_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Content,
		&p.Price, &p.Quantity, &p.Category, &p.Location, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &p, nil
}

// ListByOwner returns all posts belonging to ownerID, newest first.
//
// The id DESC tiebreak keeps the order stable when two posts share a
// created_at value (xids are time-ordered, so this matches insert order).
func (r *PostRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, content, price, quantity, category, location, image_url, created_at, updated_at
		 FROM posts
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Content,
			&p.Price, &p.Quantity, &p.Category, &p.Location, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update overwrites the mutable fields of a post. The owner (user_id) and
// created_at are deliberately not part of the SET clause — they are
// immutable after creation.
func (r *PostRepo) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, price = ?, quantity = ?, category = ?, location = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Price,
		post.Quantity,
		post.Category,
		post.Location,
		post.ImageURL,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post permanently. Same RowsAffected pattern as Update —
// zero rows touched means the post was never there.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// TitleTaken reports whether ownerID already has a post with exactly this
// title. The uniqueness rule applies at creation only, so it lives here as
// a query instead of a UNIQUE(user_id, title) constraint — a constraint
// would also reject updates that keep the title unchanged.
func (r *PostRepo) TitleTaken(ctx context.Context, ownerID, title string) (bool, error) {
	var count int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = ? AND title = ?`,
		ownerID, title,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking title for owner %s: %w", ownerID, err)
	}
	return count > 0, nil
}
