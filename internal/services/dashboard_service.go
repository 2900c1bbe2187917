package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dbm "xplore/internal/models/db_models"
	resp "xplore/internal/models/response_models"
	"xplore/internal/repositories"
	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

const topPlacesLimit = 5

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
	ListPhotos(ctx context.Context, status string, page, pageSize int) (*resp.PageResponse, error)
	ReviewPhoto(ctx context.Context, reviewerID, photoID uuid.UUID, status string) (*resp.PhotoResponse, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	log  *logger.Logger
}

func NewDashboardService(repo repositories.DashboardRepository, log *logger.Logger) DashboardService {
	return &dashboardService{repo: repo, log: log.With("service", "DashboardService")}
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	start, end := rng.Start.Unix(), rng.End.Unix()
	report := &resp.DashboardReport{Range: rng}

	var (
		byStatus map[string]int64
		top      []repositories.PlaceCountRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.KPIs.ActiveUsers, err = s.repo.CountActiveUsers(gctx)
		return
	})
	g.Go(func() (err error) {
		report.KPIs.NewUsers, err = s.repo.CountNewUsers(gctx, start, end)
		return
	})
	g.Go(func() (err error) {
		report.KPIs.CollectiblesUnlocked, err = s.repo.CountUnlocks(gctx, start, end)
		return
	})
	g.Go(func() (err error) {
		byStatus, err = s.repo.CountPhotosByStatus(gctx)
		return
	})
	g.Go(func() (err error) {
		top, err = s.repo.TopPlaces(gctx, start, end, topPlacesLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	report.KPIs.PhotosPendingReview = byStatus[dbm.PhotoPendingReview]
	report.KPIs.PhotosApproved = byStatus[dbm.PhotoApproved]
	report.KPIs.PhotosRejected = byStatus[dbm.PhotoRejected]

	report.TopPlaces = make([]resp.TopPlace, 0, len(top))
	for _, row := range top {
		report.TopPlaces = append(report.TopPlaces, resp.TopPlace{
			PlaceID: row.PlaceID.String(),
			Name:    row.Name,
			Photos:  row.Count,
		})
	}
	return report, nil
}

func (s *dashboardService) ListPhotos(ctx context.Context, status string, page, pageSize int) (*resp.PageResponse, error) {
	page, pageSize, err := utils.NormalizePage(page, pageSize)
	if err != nil {
		return nil, err
	}
	if status != "" && !validPhotoStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}

	photos, total, err := s.repo.ListPhotosByStatus(ctx, status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	items := make([]*resp.PhotoResponse, 0, len(photos))
	for i := range photos {
		items = append(items, toPhotoResponse(&photos[i]))
	}
	return &resp.PageResponse{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *dashboardService) ReviewPhoto(ctx context.Context, reviewerID, photoID uuid.UUID, status string) (*resp.PhotoResponse, error) {
	if !validPhotoStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}
	photo, err := s.repo.SetPhotoStatus(ctx, photoID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if photo == nil {
		return nil, utils.ErrPhotoNotFound
	}
	s.log.Info("photo reviewed", "photo_id", photoID, "status", status, "reviewer_id", reviewerID)
	return toPhotoResponse(photo), nil
}

func validPhotoStatus(status string) bool {
	switch status {
	case dbm.PhotoPendingReview, dbm.PhotoApproved, dbm.PhotoRejected:
		return true
	}
	return false
}

// DefaultDashboardRange is the last 30 days ending now.
func DefaultDashboardRange(now time.Time) resp.TimeRange {
	end := now.UTC()
	return resp.TimeRange{Start: end.AddDate(0, 0, -30), End: end}
}
