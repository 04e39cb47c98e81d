package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/restro-server/internal/apperror"
	"github.com/sakif/restro-server/internal/model"
	"github.com/sakif/restro-server/internal/repository"
)

// Validation limits for posts.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// PostInput carries the client-supplied fields for creating or editing a
// post. ImageURL is the reference already returned by the media store — an
// empty string on update means "keep the existing image".
type PostInput struct {
	Title    string
	Content  string
	Price    float64
	Quantity int
	Category string
	Location string
	ImageURL string
}

// PostService handles business logic for posts. Every operation is
// owner-scoped: the ownerID comes from the verified token, never from the
// request body.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// validateInput enforces the shared title/content rules for create and
// update. Returns the trimmed title.
func validateInput(in PostInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if strings.TrimSpace(in.Content) == "" {
		return "", apperror.ValidationFailed("content", "content is required")
	}
	if len(in.Content) > MaxContentLength {
		return "", apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}
	if in.Price < 0 {
		return "", apperror.ValidationFailed("price", "price cannot be negative")
	}
	if in.Quantity < 0 {
		return "", apperror.ValidationFailed("quantity", "quantity cannot be negative")
	}
	return title, nil
}

// Create validates and persists a new post for ownerID.
//
// The duplicate-title rule applies at creation only: an owner cannot have
// two posts with the same exact title. Different owners can reuse titles
// freely.
func (s *PostService) Create(ctx context.Context, ownerID string, in PostInput) (*model.Post, error) {
	title, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	taken, err := s.posts.TitleTaken(ctx, ownerID, title)
	if err != nil {
		s.logger.Error("title check failed",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking title: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("a post with this title already exists")
	}

	post := &model.Post{
		UserID:   ownerID,
		Title:    title,
		Content:  strings.TrimSpace(in.Content),
		Price:    in.Price,
		Quantity: in.Quantity,
		Category: strings.TrimSpace(in.Category),
		Location: strings.TrimSpace(in.Location),
		ImageURL: in.ImageURL,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("ownerID", ownerID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("ownerID", ownerID),
		slog.String("title", post.Title),
	)

	return post, nil
}

// List returns all posts owned by ownerID, newest-created-first. It never
// returns another owner's posts — the repository filters by owner in the
// query itself.
func (s *PostService) List(ctx context.Context, ownerID string) ([]model.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list posts",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// Update overwrites a post's title, content, and optional fields.
//
// STRATEGY: fetch, authorize, then save.
//  1. GetByID — NotFound if the post doesn't exist
//  2. owner check — Forbidden if the stored owner isn't the caller
//  3. apply changes and persist; UpdatedAt refreshes in the repository
//
// A new image reference replaces the stored one only when supplied;
// an empty ImageURL keeps the current image.
func (s *PostService) Update(ctx context.Context, postID, ownerID string, in PostInput) (*model.Post, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	title, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != ownerID {
		return nil, apperror.Forbidden("not authorized to edit this post")
	}

	post.Title = title
	post.Content = strings.TrimSpace(in.Content)
	post.Price = in.Price
	post.Quantity = in.Quantity
	post.Category = strings.TrimSpace(in.Category)
	post.Location = strings.TrimSpace(in.Location)
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated",
		slog.String("id", post.ID),
		slog.String("ownerID", ownerID),
	)

	return post, nil
}

// Delete removes a post permanently, with the same NotFound/Forbidden
// checks as Update. Deleting a nonexistent ID is an error, never a silent
// success.
func (s *PostService) Delete(ctx context.Context, postID, ownerID string) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperror.ValidationFailed("id", "post ID is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != ownerID {
		return apperror.Forbidden("not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		slog.String("id", postID),
		slog.String("ownerID", ownerID),
	)
	return nil
}
