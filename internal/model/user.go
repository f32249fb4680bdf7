package model

import "time"

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DisplayName  string     `db:"display_name" json:"displayName"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

type UpdateProfileParams struct {
	DisplayName *string
	AvatarURL   *string
}

type Session struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	UserID    string    `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}

// Identity is the authenticated view of a user plus the derived role and
// the linked client record, if any.
type Identity struct {
	User     User    `json:"user"`
	Role     Role    `json:"role"`
	ClientID *string `json:"clientId,omitempty"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

func (i *Identity) IsClient() bool {
	return i != nil && i.Role == RoleClient
}
