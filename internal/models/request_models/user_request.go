package request_models

// UpdateProfileRequest carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=2,max=50"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private"`
}

type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type PlaceListQuery struct {
	PageQuery
	Category string `form:"category"`
}

type ReviewPhotoRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected pending_review"`
}

type PhotoQueueQuery struct {
	PageQuery
	Status string `form:"status"`
}
