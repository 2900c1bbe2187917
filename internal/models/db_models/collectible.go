package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Collectible struct {
	BaseModel
	PlaceID     uuid.UUID `gorm:"type:uuid;index"`
	Name        string
	Description string
	Image       string
	Rarity      string `gorm:"size:32"`
	Attributes  datatypes.JSON
}

type UserCollectible struct {
	BaseModel
	UserID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_user_collectible"`
	CollectibleID uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_user_collectible"`
	PhotoID       *uuid.UUID `gorm:"type:uuid"`
	UnlockedAt    int64

	Collectible Collectible `gorm:"foreignKey:CollectibleID"`
}
