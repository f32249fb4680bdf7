package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

// Content repositories. These tables are staff-authored and small; the
// repos expose list/create/delete plus updates where the admin UI edits in
// place.

type ResourceRepository interface {
	List(ctx context.Context) ([]model.Resource, error)
	Create(ctx context.Context, params model.CreateContentParams) (*model.Resource, error)
	Delete(ctx context.Context, id string) error
}

type resourceRepo struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	var items []model.Resource
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM resources ORDER BY created_at DESC`)
	return items, err
}

func (r *resourceRepo) Create(ctx context.Context, params model.CreateContentParams) (*model.Resource, error) {
	var item model.Resource
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO resources (title, description, url)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Title, params.Description, params.URL)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *resourceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	return err
}

type VideoRepository interface {
	List(ctx context.Context) ([]model.Video, error)
	Create(ctx context.Context, params model.CreateContentParams) (*model.Video, error)
	Delete(ctx context.Context, id string) error
}

type videoRepo struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) List(ctx context.Context) ([]model.Video, error) {
	var items []model.Video
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM videos ORDER BY created_at DESC`)
	return items, err
}

func (r *videoRepo) Create(ctx context.Context, params model.CreateContentParams) (*model.Video, error) {
	var item model.Video
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO videos (title, description, url)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Title, params.Description, params.URL)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *videoRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}

type OfferRepository interface {
	List(ctx context.Context) ([]model.Offer, error)
	ListActive(ctx context.Context) ([]model.Offer, error)
	Create(ctx context.Context, params model.CreateContentParams) (*model.Offer, error)
	Delete(ctx context.Context, id string) error
}

type offerRepo struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) OfferRepository {
	return &offerRepo{db: db}
}

func (r *offerRepo) List(ctx context.Context) ([]model.Offer, error) {
	var items []model.Offer
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM offers ORDER BY created_at DESC`)
	return items, err
}

func (r *offerRepo) ListActive(ctx context.Context) ([]model.Offer, error) {
	var items []model.Offer
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM offers WHERE valid_until > NOW() ORDER BY valid_until ASC
	`)
	return items, err
}

func (r *offerRepo) Create(ctx context.Context, params model.CreateContentParams) (*model.Offer, error) {
	var item model.Offer
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO offers (title, description, price, valid_until)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Title, params.Description, params.Price, params.ValidUntil)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *offerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}

type UpdateRepository interface {
	List(ctx context.Context) ([]model.Update, error)
	ListPublished(ctx context.Context) ([]model.Update, error)
	Create(ctx context.Context, params model.CreateContentParams) (*model.Update, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

type updateRepo struct {
	db *sqlx.DB
}

func NewUpdateRepository(db *sqlx.DB) UpdateRepository {
	return &updateRepo{db: db}
}

func (r *updateRepo) List(ctx context.Context) ([]model.Update, error) {
	var items []model.Update
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM updates ORDER BY created_at DESC`)
	return items, err
}

func (r *updateRepo) ListPublished(ctx context.Context) ([]model.Update, error) {
	var items []model.Update
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM updates WHERE published = TRUE ORDER BY created_at DESC
	`)
	return items, err
}

func (r *updateRepo) Create(ctx context.Context, params model.CreateContentParams) (*model.Update, error) {
	var item model.Update
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO updates (title, content, image_url, published)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Title, params.Content, params.ImageURL, params.Published)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *updateRepo) SetPublished(ctx context.Context, id string, published bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE updates SET published = $2 WHERE id = $1`, id, published)
	return err
}

func (r *updateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM updates WHERE id = $1`, id)
	return err
}

type WeeklyProductRepository interface {
	List(ctx context.Context) ([]model.WeeklyProduct, error)
	ListByWeek(ctx context.Context, limit int) ([]model.WeeklyProduct, error)
	Create(ctx context.Context, params model.CreateContentParams) (*model.WeeklyProduct, error)
	Delete(ctx context.Context, id string) error
}

type weeklyProductRepo struct {
	db *sqlx.DB
}

func NewWeeklyProductRepository(db *sqlx.DB) WeeklyProductRepository {
	return &weeklyProductRepo{db: db}
}

func (r *weeklyProductRepo) List(ctx context.Context) ([]model.WeeklyProduct, error) {
	var items []model.WeeklyProduct
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM weekly_products ORDER BY week_start DESC`)
	return items, err
}

func (r *weeklyProductRepo) ListByWeek(ctx context.Context, limit int) ([]model.WeeklyProduct, error) {
	var items []model.WeeklyProduct
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM weekly_products ORDER BY week_start DESC LIMIT $1
	`, limit)
	return items, err
}

func (r *weeklyProductRepo) Create(ctx context.Context, params model.CreateContentParams) (*model.WeeklyProduct, error) {
	var item model.WeeklyProduct
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO weekly_products (title, description, url, week_start)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Title, params.Description, params.URL, params.WeekStart)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *weeklyProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM weekly_products WHERE id = $1`, id)
	return err
}
