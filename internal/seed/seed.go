// Package seed loads the bundled place catalog and achievement definitions.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/infra"
	"xplore/internal/models/db_models"
	"xplore/internal/services"
	"xplore/pkg/logger"
)

//go:embed catalog.yaml
var bundled []byte

type Catalog struct {
	Achievements []AchievementSeed `yaml:"achievements"`
	Places       []PlaceSeed       `yaml:"places"`
}

type AchievementSeed struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Icon          string `yaml:"icon"`
	CriteriaType  string `yaml:"criteria_type"`
	CriteriaValue int    `yaml:"criteria_value"`
}

type PlaceSeed struct {
	Name         string            `yaml:"name"`
	Location     string            `yaml:"location"`
	Latitude     float64           `yaml:"latitude"`
	Longitude    float64           `yaml:"longitude"`
	Category     string            `yaml:"category"`
	MainImage    string            `yaml:"main_image"`
	Description  string            `yaml:"description"`
	Labels       []string          `yaml:"labels"`
	History      []HistorySeed     `yaml:"history"`
	Collectibles []CollectibleSeed `yaml:"collectibles"`
}

type HistorySeed struct {
	Title string `yaml:"title"`
	Year  *int   `yaml:"year"`
	Body  string `yaml:"body"`
}

type CollectibleSeed struct {
	Name        string                 `yaml:"name"`
	Rarity      string                 `yaml:"rarity"`
	Image       string                 `yaml:"image"`
	Description string                 `yaml:"description"`
	Attributes  map[string]interface{} `yaml:"attributes"`
}

func Bundled() (*Catalog, error) {
	return Parse(bundled)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, p := range c.Places {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog place %d has no name", i)
		}
	}
	for i, a := range c.Achievements {
		switch a.CriteriaType {
		case db_models.CriteriaCollectiblesCount, db_models.CriteriaPlacesCount, db_models.CriteriaPhotosCount:
		default:
			return nil, fmt.Errorf("achievement %d (%s): unknown criteria %q", i, a.Code, a.CriteriaType)
		}
	}
	return &c, nil
}

// Apply inserts whatever part of the catalog is missing. Places are matched
// by name and are never updated once present.
func Apply(ctx context.Context, db *gorm.DB, c *Catalog, log *logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}
	return infra.RunInTransaction(ctx, db, func(tx *gorm.DB) error {
		for _, a := range c.Achievements {
			row := db_models.Achievement{
				Code:          a.Code,
				Name:          a.Name,
				Description:   a.Description,
				Icon:          a.Icon,
				CriteriaType:  a.CriteriaType,
				CriteriaValue: a.CriteriaValue,
			}
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
				Create(&row).Error; err != nil {
				return fmt.Errorf("seed achievement %s: %w", a.Code, err)
			}
		}

		added := 0
		for _, p := range c.Places {
			created, err := applyPlace(tx, p)
			if err != nil {
				return fmt.Errorf("seed place %s: %w", p.Name, err)
			}
			if created {
				added++
			}
		}
		log.Info("catalog applied", "places_added", added, "achievements", len(c.Achievements))
		return nil
	})
}

func applyPlace(tx *gorm.DB, p PlaceSeed) (bool, error) {
	var existing int64
	if err := tx.Model(&db_models.Place{}).Where("name = ?", p.Name).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	place := db_models.Place{
		Name:        p.Name,
		Location:    p.Location,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Description: p.Description,
		MainImage:   p.MainImage,
		Category:    p.Category,
	}
	if err := tx.Create(&place).Error; err != nil {
		return false, err
	}

	for i, h := range p.History {
		entry := db_models.PlaceHistory{PlaceID: place.ID, Title: h.Title, Body: h.Body, Year: h.Year, Position: i}
		if err := tx.Create(&entry).Error; err != nil {
			return false, err
		}
	}

	for _, cs := range p.Collectibles {
		item := db_models.Collectible{
			PlaceID:     place.ID,
			Name:        cs.Name,
			Description: cs.Description,
			Image:       cs.Image,
			Rarity:      cs.Rarity,
		}
		if len(cs.Attributes) > 0 {
			raw, err := json.Marshal(cs.Attributes)
			if err != nil {
				return false, err
			}
			item.Attributes = datatypes.JSON(raw)
		}
		if err := tx.Create(&item).Error; err != nil {
			return false, err
		}
	}

	labels := append([]string{p.Name}, p.Labels...)
	for _, l := range labels {
		label := db_models.PlaceLabel{Label: services.NormalizeLabel(l), PlaceID: place.ID}
		if label.Label == "" {
			continue
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "label"}}, DoNothing: true}).
			Create(&label).Error; err != nil {
			return false, err
		}
	}
	return true, nil
}
