package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

// ContentService groups the staff-authored catalog tables behind one
// facade. Admin routes see the full lists; client routes see the filtered
// views (published updates, unexpired offers, recent weekly products).
type ContentService struct {
	resources repository.ResourceRepository
	videos    repository.VideoRepository
	offers    repository.OfferRepository
	updates   repository.UpdateRepository
	weekly    repository.WeeklyProductRepository
}

func NewContentService(
	resources repository.ResourceRepository,
	videos repository.VideoRepository,
	offers repository.OfferRepository,
	updates repository.UpdateRepository,
	weekly repository.WeeklyProductRepository,
) *ContentService {
	return &ContentService{
		resources: resources,
		videos:    videos,
		offers:    offers,
		updates:   updates,
		weekly:    weekly,
	}
}

func (s *ContentService) ListResources(ctx context.Context) ([]model.Resource, error) {
	return s.resources.List(ctx)
}

func (s *ContentService) CreateResource(ctx context.Context, params model.CreateContentParams) (*model.Resource, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.URL == "" {
		return nil, apperrors.MissingRequired("url")
	}
	item, err := s.resources.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	log.Info().Str("resourceId", item.ID).Msg("resource created")
	return item, nil
}

func (s *ContentService) DeleteResource(ctx context.Context, id string) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *ContentService) ListVideos(ctx context.Context) ([]model.Video, error) {
	return s.videos.List(ctx)
}

func (s *ContentService) CreateVideo(ctx context.Context, params model.CreateContentParams) (*model.Video, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.URL == "" {
		return nil, apperrors.MissingRequired("url")
	}
	item, err := s.videos.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	log.Info().Str("videoId", item.ID).Msg("video created")
	return item, nil
}

func (s *ContentService) DeleteVideo(ctx context.Context, id string) error {
	if err := s.videos.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *ContentService) ListOffers(ctx context.Context) ([]model.Offer, error) {
	return s.offers.List(ctx)
}

func (s *ContentService) ListActiveOffers(ctx context.Context) ([]model.Offer, error) {
	return s.offers.ListActive(ctx)
}

func (s *ContentService) CreateOffer(ctx context.Context, params model.CreateContentParams) (*model.Offer, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.ValidUntil == nil {
		return nil, apperrors.MissingRequired("validUntil")
	}
	item, err := s.offers.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	log.Info().Str("offerId", item.ID).Msg("offer created")
	return item, nil
}

func (s *ContentService) DeleteOffer(ctx context.Context, id string) error {
	if err := s.offers.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *ContentService) ListUpdates(ctx context.Context) ([]model.Update, error) {
	return s.updates.List(ctx)
}

func (s *ContentService) ListPublishedUpdates(ctx context.Context) ([]model.Update, error) {
	return s.updates.ListPublished(ctx)
}

func (s *ContentService) CreateUpdate(ctx context.Context, params model.CreateContentParams) (*model.Update, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.Content == "" {
		return nil, apperrors.MissingRequired("content")
	}
	item, err := s.updates.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	log.Info().Str("updateId", item.ID).Bool("published", item.Published).Msg("update created")
	return item, nil
}

func (s *ContentService) SetUpdatePublished(ctx context.Context, id string, published bool) error {
	if err := s.updates.SetPublished(ctx, id, published); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *ContentService) DeleteUpdate(ctx context.Context, id string) error {
	if err := s.updates.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *ContentService) ListWeeklyProducts(ctx context.Context) ([]model.WeeklyProduct, error) {
	return s.weekly.List(ctx)
}

func (s *ContentService) ListRecentWeeklyProducts(ctx context.Context, weeks int) ([]model.WeeklyProduct, error) {
	if weeks <= 0 {
		weeks = 4
	}
	return s.weekly.ListByWeek(ctx, weeks)
}

func (s *ContentService) CreateWeeklyProduct(ctx context.Context, params model.CreateContentParams) (*model.WeeklyProduct, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.WeekStart == nil {
		return nil, apperrors.MissingRequired("weekStart")
	}
	item, err := s.weekly.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	log.Info().Str("productId", item.ID).Msg("weekly product created")
	return item, nil
}

func (s *ContentService) DeleteWeeklyProduct(ctx context.Context, id string) error {
	if err := s.weekly.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}
