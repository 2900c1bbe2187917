package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"xplore/internal/imaging"
	"xplore/internal/infra"
	"xplore/internal/models/db_models"
	"xplore/internal/repositories"
	"xplore/internal/storage"
	"xplore/pkg/logger"
	"xplore/pkg/metrics"
	"xplore/pkg/utils"
)

type CollectInput struct {
	UserID  uuid.UUID
	PlaceID uuid.UUID
	Image   []byte
	Info    imaging.Info
	// Label and Confidence describe the prediction behind the photo, if any.
	Label      string
	Confidence float64
	// Unlock grants the place's collectibles; false only stores the photo.
	Unlock bool
}

type CollectResult struct {
	Place           *db_models.Place
	Photo           *db_models.Photo
	PhotoReused     bool
	NewCollectibles []db_models.Collectible
	NewAchievements []db_models.UserAchievement
}

type CollectionServiceInterface interface {
	Collect(ctx context.Context, in CollectInput) (*CollectResult, error)
}

type CollectionService struct {
	db              *gorm.DB
	userRepo        repositories.UserRepository
	placeRepo       repositories.PlaceRepository
	photoRepo       repositories.PhotoRepository
	collectibleRepo repositories.CollectibleRepository
	achievementRepo repositories.AchievementRepository
	store           storage.PhotoStore
	log             *logger.Logger
	now             func() time.Time
}

func NewCollectionService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	placeRepo repositories.PlaceRepository,
	photoRepo repositories.PhotoRepository,
	collectibleRepo repositories.CollectibleRepository,
	achievementRepo repositories.AchievementRepository,
	store storage.PhotoStore,
	log *logger.Logger,
) CollectionServiceInterface {
	return &CollectionService{
		db:              db,
		userRepo:        userRepo,
		placeRepo:       placeRepo,
		photoRepo:       photoRepo,
		collectibleRepo: collectibleRepo,
		achievementRepo: achievementRepo,
		store:           store,
		log:             log.With("service", "CollectionService"),
		now:             time.Now,
	}
}

// Collect stores the photo and unlocks the place's collectibles in one
// transaction. Repeating it for the same user, place and bytes unlocks
// nothing new and writes no duplicate rows. The same bytes saved for another
// place get their own photo. Inactive users are treated as unknown.
func (s *CollectionService) Collect(ctx context.Context, in CollectInput) (*CollectResult, error) {
	if in.UserID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}
	if len(in.Image) == 0 {
		return nil, fmt.Errorf("%w: empty image", utils.ErrInvalidImage)
	}

	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil || !user.Active {
		return nil, utils.ErrUserNotFound
	}

	place, err := s.placeRepo.FindByID(ctx, in.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}

	hash := utils.ContentHash(in.Image)
	existing, err := s.photoRepo.FindByUserPlaceAndHash(ctx, in.UserID, place.ID, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	now := s.now()
	var writtenKey string
	photo := existing
	if photo == nil {
		writtenKey = storage.NewKey(in.UserID, in.Info.Extension, now)
		if err := s.store.Put(ctx, writtenKey, in.Info.MIME, in.Image); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrStorageFailure, err)
		}
		photo = &db_models.Photo{
			UserID:      in.UserID,
			PlaceID:     place.ID,
			Status:      db_models.PhotoPendingReview,
			StorageKey:  writtenKey,
			URL:         s.store.PublicURL(writtenKey),
			ContentType: in.Info.MIME,
			ContentHash: hash,
			Width:       in.Info.Width,
			Height:      in.Info.Height,
			Label:       in.Label,
			Confidence:  in.Confidence,
		}
	}

	result := &CollectResult{Place: place, PhotoReused: existing != nil}
	orphaned := false

	err = infra.RunInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		photos := s.photoRepo.WithTx(tx)
		if existing == nil {
			created, err := photos.InsertIfAbsent(ctx, photo)
			if err != nil {
				return err
			}
			if !created {
				// A concurrent request stored the same bytes first.
				winner, err := photos.FindByUserPlaceAndHash(ctx, in.UserID, place.ID, hash)
				if err != nil {
					return err
				}
				if winner == nil {
					return errors.New("photo vanished after insert conflict")
				}
				photo = winner
				orphaned = true
				result.PhotoReused = true
			}
		}

		if in.Unlock {
			collectibles := s.collectibleRepo.WithTx(tx)
			items, err := collectibles.ListByPlace(ctx, place.ID)
			if err != nil {
				return err
			}
			photoID := photo.ID
			for _, item := range items {
				created, err := collectibles.Unlock(ctx, in.UserID, item.ID, &photoID, now.Unix())
				if err != nil {
					return err
				}
				if created {
					result.NewCollectibles = append(result.NewCollectibles, item)
				}
			}
		}

		granted, err := s.grantAchievements(ctx, tx, in.UserID, now.Unix())
		if err != nil {
			return err
		}
		result.NewAchievements = granted
		return nil
	})
	if err != nil {
		if writtenKey != "" {
			s.discard(writtenKey)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if orphaned {
		s.discard(writtenKey)
	}

	result.Photo = photo
	if n := len(result.NewCollectibles); n > 0 {
		metrics.CollectiblesUnlockedTotal.Add(float64(n))
	}
	s.log.Info("collection saved",
		"user_id", in.UserID,
		"place_id", place.ID,
		"photo_id", photo.ID,
		"photo_reused", result.PhotoReused,
		"new_collectibles", len(result.NewCollectibles),
		"new_achievements", len(result.NewAchievements),
	)
	return result, nil
}

// grantAchievements awards every achievement whose threshold the user now
// meets. Already granted ones are skipped by the unique index.
func (s *CollectionService) grantAchievements(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at int64) ([]db_models.UserAchievement, error) {
	achievements := s.achievementRepo.WithTx(tx)
	all, err := achievements.ListAll(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}

	counters := map[string]func(context.Context, uuid.UUID) (int64, error){
		db_models.CriteriaCollectiblesCount: s.collectibleRepo.WithTx(tx).CountByUser,
		db_models.CriteriaPhotosCount:       s.photoRepo.WithTx(tx).CountByUser,
		db_models.CriteriaPlacesCount:       s.photoRepo.WithTx(tx).CountPlacesByUser,
	}
	counts := map[string]int64{}

	var granted []db_models.UserAchievement
	for _, a := range all {
		counter, ok := counters[a.CriteriaType]
		if !ok {
			continue
		}
		n, seen := counts[a.CriteriaType]
		if !seen {
			if n, err = counter(ctx, userID); err != nil {
				return nil, err
			}
			counts[a.CriteriaType] = n
		}
		if n < int64(a.CriteriaValue) {
			continue
		}
		created, err := achievements.Grant(ctx, userID, a.ID, at)
		if err != nil {
			return nil, err
		}
		if created {
			granted = append(granted, db_models.UserAchievement{
				UserID:        userID,
				AchievementID: a.ID,
				UnlockedAt:    at,
				Achievement:   a,
			})
		}
	}
	return granted, nil
}

func (s *CollectionService) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Error("failed to delete orphaned photo", "key", key, "error", err)
	}
}
