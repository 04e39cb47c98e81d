// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/restro-server/internal/model"
)

type UserRepository interface {
	// Create persists a new user. It returns apperror.ErrConflict when a
	// user with the same email already exists.
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// ListByOwner returns the owner's posts ordered newest-created-first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	// TitleTaken reports whether the owner already has a post with this title.
	TitleTaken(ctx context.Context, ownerID, title string) (bool, error)
}
