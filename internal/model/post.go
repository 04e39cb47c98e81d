package model

import "time"

// Post represents a dish listing created by a user.
//
// UserID references the owning User and is immutable after creation — the
// only access-control rule in the system is "stored owner == caller".
//
// Title and Content are required. The remaining structured attributes
// (price, quantity, category, location) are optional and omitted from JSON
// when zero, so a minimal post serializes to just id/owner/title/content
// plus timestamps.
//
// ImageURL holds the public reference returned by the media store
// (e.g. "/uploads/cv37rs3pp9olc6atsptg.jpg") or the empty string when no
// image was uploaded. The server never stores or inspects image bytes in
// the database.
type Post struct {
	ID        string    `json:"id"                 db:"id"`
	UserID    string    `json:"userId"             db:"user_id"`
	Title     string    `json:"title"              db:"title"`
	Content   string    `json:"content"            db:"content"`
	Price     float64   `json:"price,omitempty"    db:"price"`
	Quantity  int       `json:"quantity,omitempty" db:"quantity"`
	Category  string    `json:"category,omitempty" db:"category"`
	Location  string    `json:"location,omitempty" db:"location"`
	ImageURL  string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"createdAt"          db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"          db:"updated_at"`
}
