package db_models

import "github.com/google/uuid"

const (
	CriteriaCollectiblesCount = "collectibles_count"
	CriteriaPlacesCount       = "places_count"
	CriteriaPhotosCount       = "photos_count"
)

type Achievement struct {
	BaseModel
	Code          string `gorm:"uniqueIndex;size:64"`
	Name          string
	Description   string
	Icon          string
	CriteriaType  string `gorm:"size:32"`
	CriteriaValue int
}

type UserAchievement struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_achievement"`
	AchievementID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_achievement"`
	UnlockedAt    int64

	Achievement Achievement `gorm:"foreignKey:AchievementID"`
}
