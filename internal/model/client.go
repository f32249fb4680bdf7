package model

import "time"

// Client is a business client record. It may exist before the client ever
// registers; UserID is set once an account links to it.
type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Company   *string   `db:"company" json:"company,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	UserID    *string   `db:"user_id" json:"userId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateClientParams struct {
	Name    string
	Email   string
	Company *string
	Phone   *string
}

type UpdateClientParams struct {
	Name    *string
	Company *string
	Phone   *string
}
