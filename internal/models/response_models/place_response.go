package response_models

import "gorm.io/datatypes"

type PlaceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Description     string  `json:"description"`
	ImagenPrincipal string  `json:"imagen_principal"`
	ImageURL        string  `json:"image_url"`
	Category        string  `json:"category"`
}

type PlaceHistoryResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Year     *int   `json:"year,omitempty"`
	Position int    `json:"position"`
}

type CollectibleResponse struct {
	ID          string         `json:"id"`
	PlaceID     string         `json:"place_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Rarity      string         `json:"rarity"`
	Attributes  datatypes.JSON `json:"attributes,omitempty"`
}

type UserCollectibleResponse struct {
	Collectible CollectibleResponse `json:"collectible"`
	UnlockedAt  string              `json:"unlocked_at"`
	PhotoID     *string             `json:"photo_id,omitempty"`
}

type PhotoResponse struct {
	ID          string  `json:"id"`
	PlaceID     string  `json:"place_id"`
	Status      string  `json:"status"`
	URL         string  `json:"url"`
	ContentType string  `json:"content_type"`
	Label       string  `json:"label,omitempty"`
	Confidence  float64 `json:"confidence"`
	CreatedAt   string  `json:"created_at"`
}

type AchievementResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	CriteriaType  string `json:"criteria_type"`
	CriteriaValue int    `json:"criteria_value"`
	UnlockedAt    string `json:"unlocked_at,omitempty"`
}
