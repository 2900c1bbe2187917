package db_models

import "github.com/google/uuid"

type Place struct {
	BaseModel
	Name        string `gorm:"index"`
	Location    string
	Latitude    float64
	Longitude   float64
	Description string
	MainImage   string
	Category    string `gorm:"index;size:64"`

	History      []PlaceHistory `gorm:"foreignKey:PlaceID"`
	Collectibles []Collectible  `gorm:"foreignKey:PlaceID"`
}

type PlaceHistory struct {
	BaseModel
	PlaceID  uuid.UUID `gorm:"type:uuid;index"`
	Title    string
	Body     string
	Year     *int
	Position int
}

// PlaceLabel maps a normalised classifier label onto a place.
type PlaceLabel struct {
	BaseModel
	Label   string    `gorm:"uniqueIndex;size:255"`
	PlaceID uuid.UUID `gorm:"type:uuid;index"`
}
