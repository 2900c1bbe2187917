package db_models

import "github.com/google/uuid"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	BaseModel
	DisplayName  string
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string
	IsPrivate    bool
	Bio          string
	Role         string `gorm:"size:32"`
	Active       bool   `gorm:"index"`
	LastSeenAt   *int64
}

type Follow struct {
	BaseModel
	FollowerID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_pair"`
	FollowedID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_pair;index"`
}
