package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/models/db_models"
	"xplore/pkg/utils"
)

type PlaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Place, error)
	List(ctx context.Context, category string, page, pageSize int) ([]db_models.Place, int64, error)
	ListNames(ctx context.Context) ([]db_models.Place, error)
	ListHistory(ctx context.Context, placeID uuid.UUID) ([]db_models.PlaceHistory, error)
	FindByLabel(ctx context.Context, label string) (*db_models.Place, error)
	UpsertLabel(ctx context.Context, label string, placeID uuid.UUID) error
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) List(ctx context.Context, category string, page, pageSize int) ([]db_models.Place, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if category != "" {
			return db.Where("category = ?", category)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.Place{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var places []db_models.Place
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("name ASC").
		Offset(utils.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&places).Error
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

// ListNames loads the id and name of every place for label resolution.
func (r *placeRepository) ListNames(ctx context.Context) ([]db_models.Place, error) {
	var places []db_models.Place
	err := r.db.WithContext(ctx).Select("id", "name").Order("name ASC").Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) ListHistory(ctx context.Context, placeID uuid.UUID) ([]db_models.PlaceHistory, error) {
	var entries []db_models.PlaceHistory
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByLabel expects an already normalised label.
func (r *placeRepository) FindByLabel(ctx context.Context, label string) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).
		Joins("JOIN place_labels ON place_labels.place_id = places.id AND place_labels.deleted_at IS NULL").
		Where("place_labels.label = ?", label).
		First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) UpsertLabel(ctx context.Context, label string, placeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label"}},
			DoUpdates: clause.AssignmentColumns([]string{"place_id", "updated_at"}),
		}).
		Create(&db_models.PlaceLabel{Label: label, PlaceID: placeID}).Error
}
