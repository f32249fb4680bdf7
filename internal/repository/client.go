package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*model.Client, error)
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	FindByUserID(ctx context.Context, userID string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Create(ctx context.Context, params model.CreateClientParams) (*model.Client, error)
	Update(ctx context.Context, id string, params model.UpdateClientParams) (*model.Client, error)
	LinkUser(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type clientRepo struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE id = $1`, id)
	return HandleNotFound(&client, err)
}

func (r *clientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE email = $1`, strings.ToLower(email))
	return HandleNotFound(&client, err)
}

func (r *clientRepo) FindByUserID(ctx context.Context, userID string) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE user_id = $1`, userID)
	return HandleNotFound(&client, err)
}

func (r *clientRepo) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.SelectContext(ctx, &clients, `
		SELECT * FROM clients ORDER BY created_at DESC
	`)
	return clients, err
}

func (r *clientRepo) Create(ctx context.Context, params model.CreateClientParams) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `
		INSERT INTO clients (name, email, company, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Name, strings.ToLower(params.Email), params.Company, params.Phone)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(ctx context.Context, id string, params model.UpdateClientParams) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `
		UPDATE clients SET
			name = COALESCE($2, name),
			company = COALESCE($3, company),
			phone = COALESCE($4, phone),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Company, params.Phone)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) LinkUser(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE clients SET user_id = $2, updated_at = NOW()
		WHERE id = $1 AND user_id IS NULL
	`, id, userID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
