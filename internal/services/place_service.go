package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"xplore/internal/models/response_models"
	"xplore/internal/placeimage"
	"xplore/internal/repositories"
	"xplore/pkg/utils"
)

type PlaceServiceInterface interface {
	List(ctx context.Context, category string, page, pageSize int) (*response_models.PageResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.PlaceResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]response_models.PlaceHistoryResponse, error)
	Collectibles(ctx context.Context, id uuid.UUID) ([]response_models.CollectibleResponse, error)
}

type PlaceService struct {
	placeRepo       repositories.PlaceRepository
	collectibleRepo repositories.CollectibleRepository
	images          *placeimage.Resolver
}

func NewPlaceService(placeRepo repositories.PlaceRepository, collectibleRepo repositories.CollectibleRepository, images *placeimage.Resolver) PlaceServiceInterface {
	return &PlaceService{
		placeRepo:       placeRepo,
		collectibleRepo: collectibleRepo,
		images:          images,
	}
}

func (s *PlaceService) List(ctx context.Context, category string, page, pageSize int) (*response_models.PageResponse, error) {
	page, pageSize, err := utils.NormalizePage(page, pageSize)
	if err != nil {
		return nil, err
	}
	places, total, err := s.placeRepo.List(ctx, category, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	items := make([]response_models.PlaceResponse, 0, len(places))
	for i := range places {
		items = append(items, toPlaceResponse(&places[i], s.images))
	}
	return &response_models.PageResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *PlaceService) Get(ctx context.Context, id uuid.UUID) (*response_models.PlaceResponse, error) {
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}
	resp := toPlaceResponse(place, s.images)
	return &resp, nil
}

func (s *PlaceService) History(ctx context.Context, id uuid.UUID) ([]response_models.PlaceHistoryResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.placeRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.PlaceHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, response_models.PlaceHistoryResponse{
			ID:       e.ID.String(),
			Title:    e.Title,
			Body:     e.Body,
			Year:     e.Year,
			Position: e.Position,
		})
	}
	return out, nil
}

func (s *PlaceService) Collectibles(ctx context.Context, id uuid.UUID) ([]response_models.CollectibleResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.collectibleRepo.ListByPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toCollectibleResponses(items), nil
}
