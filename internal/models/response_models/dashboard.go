package response_models

import "time"

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type KPIBlock struct {
	ActiveUsers          int64 `json:"active_users"`
	NewUsers             int64 `json:"new_users"`
	PhotosPendingReview  int64 `json:"photos_pending_review"`
	PhotosApproved       int64 `json:"photos_approved"`
	PhotosRejected       int64 `json:"photos_rejected"`
	CollectiblesUnlocked int64 `json:"collectibles_unlocked"`
}

type TopPlace struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Photos  int64  `json:"photos"`
}

type DashboardReport struct {
	Range     TimeRange  `json:"range"`
	KPIs      KPIBlock   `json:"kpis"`
	TopPlaces []TopPlace `json:"top_places"`
}
