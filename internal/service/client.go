package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

type ClientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func (s *ClientService) List(ctx context.Context) ([]model.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if client == nil {
		return nil, apperrors.NotFound("Client")
	}
	return client, nil
}

func (s *ClientService) Create(ctx context.Context, params model.CreateClientParams) (*model.Client, error) {
	if params.Name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	if params.Email == "" {
		return nil, apperrors.MissingRequired("email")
	}

	existing, err := s.clientRepo.FindByEmail(ctx, params.Email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Client")
	}

	client, err := s.clientRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("clientId", client.ID).Str("email", client.Email).Msg("client created")
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, params model.UpdateClientParams) (*model.Client, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("clientId", id).Msg("client deleted")
	return nil
}
