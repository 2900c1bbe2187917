package db_models

import "github.com/google/uuid"

const (
	PhotoPendingReview = "pending_review"
	PhotoApproved      = "approved"
	PhotoRejected      = "rejected"
)

type Photo struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_photo_user_place_hash,priority:1;index"`
	PlaceID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_photo_user_place_hash,priority:2;index"`
	Status      string    `gorm:"size:32;index"`
	StorageKey  string
	URL         string
	ContentType string `gorm:"size:64"`
	ContentHash string `gorm:"size:64;uniqueIndex:idx_photo_user_place_hash,priority:3"`
	Width       int
	Height      int
	Label       string
	Confidence  float64

	Place Place `gorm:"foreignKey:PlaceID"`
}
