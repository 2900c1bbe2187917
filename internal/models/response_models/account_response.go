package response_models

type UserResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Bio         string  `json:"bio"`
	IsPrivate   bool    `json:"is_private"`
	Role        string  `json:"role,omitempty"`
	CreatedAt   string  `json:"created_at"`
	LastSeenAt  *string `json:"last_seen_at,omitempty"`
}

type LoginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	Usuario   UserResponse `json:"usuario"`
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	Usuario UserResponse `json:"usuario"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type UserSummaryResponse struct {
	Collectibles int64 `json:"collectibles"`
	Places       int64 `json:"places"`
	Photos       int64 `json:"photos"`
	Achievements int64 `json:"achievements"`
	Followers    int64 `json:"followers"`
	Following    int64 `json:"following"`
}

type PageResponse struct {
	Items    interface{} `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
}
