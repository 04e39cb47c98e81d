package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sakif/restro-server/internal/apperror"
	"github.com/sakif/restro-server/internal/model"
)

// createTestPost inserts a post for ownerID and fails the test on error.
func createTestPost(t *testing.T, db *DB, ownerID, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:  ownerID,
		Title:   title,
		Content: "some content",
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func TestPostCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")

	post := &model.Post{
		UserID:   owner.ID,
		Title:    "Soup",
		Content:  "hot and fresh",
		Price:    4.50,
		Quantity: 3,
		Category: "starter",
		Location: "downtown",
		ImageURL: "/uploads/abc.jpg",
	}

	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("Create() did not set post.ID")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}

	// Read it back and verify every field survived the round trip
	found, err := db.Posts().GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.UserID != owner.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, owner.ID)
	}
	if found.Price != 4.50 {
		t.Errorf("Price = %v, want 4.50", found.Price)
	}
	if found.ImageURL != "/uploads/abc.jpg" {
		t.Errorf("ImageURL = %q, want %q", found.ImageURL, "/uploads/abc.jpg")
	}
}

func TestPostGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Posts().GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPostListByOwner_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")

	for i := 1; i <= 3; i++ {
		createTestPost(t, db, owner.ID, fmt.Sprintf("dish %d", i))
		time.Sleep(5 * time.Millisecond) // distinct created_at values
	}

	posts, err := db.Posts().ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("len(posts) = %d, want 3", len(posts))
	}

	// Newest first: dish 3, dish 2, dish 1
	if posts[0].Title != "dish 3" || posts[2].Title != "dish 1" {
		t.Errorf("order = [%s, %s, %s], want newest-first",
			posts[0].Title, posts[1].Title, posts[2].Title)
	}
}

func TestPostListByOwner_IsolatedPerOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	createTestPost(t, db, alice.ID, "alice dish")
	createTestPost(t, db, bob.ID, "bob dish")

	posts, err := db.Posts().ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if posts[0].UserID != alice.ID {
		t.Errorf("ListByOwner() leaked another owner's post")
	}
}

func TestPostListByOwner_Empty(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")

	posts, err := db.Posts().ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if posts == nil {
		t.Error("ListByOwner() should return an empty slice, not nil")
	}
	if len(posts) != 0 {
		t.Errorf("len(posts) = %d, want 0", len(posts))
	}
}

func TestPostUpdate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")
	post := createTestPost(t, db, owner.ID, "before")

	post.Title = "after"
	post.Content = "updated content"
	if err := db.Posts().Update(context.Background(), post); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Posts().GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "after" {
		t.Errorf("Title = %q, want %q", found.Title, "after")
	}
	// Owner and created_at are immutable
	if found.UserID != owner.ID {
		t.Errorf("UserID changed on update")
	}
}

func TestPostUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Post{ID: "nonexistent", Title: "x", Content: "y"}
	err := db.Posts().Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPostDelete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")
	post := createTestPost(t, db, owner.ID, "doomed")

	if err := db.Posts().Delete(context.Background(), post.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Posts().GetByID(context.Background(), post.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("post still retrievable after Delete()")
	}
}

func TestPostDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	// Never a silent success
	err := db.Posts().Delete(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// Users() and Posts() are separate repo types over one connection pool, so
// a foreign key written through one must be visible to the other.
func TestReposShareDatabase(t *testing.T) {
	db := newTestDB(t)

	owner := createTestUser(t, db, "alice", "alice@example.com")
	post := createTestPost(t, db, owner.ID, "Soup")

	found, err := db.Posts().GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.UserID != owner.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, owner.ID)
	}

	// foreign_keys=ON rejects an owner the user repo never stored
	ghost := &model.Post{UserID: "no-such-user", Title: "x", Content: "y"}
	if err := db.Posts().Create(context.Background(), ghost); err == nil {
		t.Error("Create() accepted a post whose owner does not exist")
	}
}

func TestTitleTaken(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	createTestPost(t, db, alice.ID, "Soup")

	taken, err := db.Posts().TitleTaken(context.Background(), alice.ID, "Soup")
	if err != nil {
		t.Fatalf("TitleTaken() error = %v", err)
	}
	if !taken {
		t.Error("TitleTaken() = false for an existing title")
	}

	// Same title under a different owner is fine
	taken, err = db.Posts().TitleTaken(context.Background(), bob.ID, "Soup")
	if err != nil {
		t.Fatalf("TitleTaken() error = %v", err)
	}
	if taken {
		t.Error("TitleTaken() = true for a different owner")
	}
}
