package model

import "time"

// Content entities shown to clients in the portal. All are staff-authored
// and read-only for clients.

type Resource struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Video struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Offer struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       *float64  `db:"price" json:"price,omitempty"`
	ValidUntil  time.Time `db:"valid_until" json:"validUntil"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Update struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"imageUrl,omitempty"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type WeeklyProduct struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	URL         string    `db:"url" json:"url"`
	WeekStart   time.Time `db:"week_start" json:"weekStart"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateContentParams struct {
	Title       string
	Description *string
	Content     string
	URL         string
	ImageURL    *string
	Price       *float64
	ValidUntil  *time.Time
	WeekStart   *time.Time
	Published   bool
}
