package services

import (
	"xplore/internal/models/db_models"
	"xplore/internal/models/response_models"
	"xplore/internal/placeimage"
	"xplore/pkg/utils"
)

func toUserResponse(u *db_models.User, includePrivate bool) response_models.UserResponse {
	resp := response_models.UserResponse{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		IsPrivate:   u.IsPrivate,
		CreatedAt:   utils.FormatRFC3339(u.CreatedAt),
	}
	if includePrivate {
		resp.Email = u.Email
		resp.Role = u.Role
		if u.LastSeenAt != nil {
			ts := utils.FormatRFC3339(*u.LastSeenAt)
			resp.LastSeenAt = &ts
		}
	}
	return resp
}

func toUserResponses(users []db_models.User) []response_models.UserResponse {
	out := make([]response_models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], false))
	}
	return out
}

func toPlaceResponse(p *db_models.Place, images *placeimage.Resolver) response_models.PlaceResponse {
	resp := response_models.PlaceResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Location:        p.Location,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Description:     p.Description,
		ImagenPrincipal: p.MainImage,
		Category:        p.Category,
	}
	if images != nil {
		resp.ImageURL = images.URL(p.MainImage)
	}
	return resp
}

func toCollectibleResponse(c *db_models.Collectible) response_models.CollectibleResponse {
	return response_models.CollectibleResponse{
		ID:          c.ID.String(),
		PlaceID:     c.PlaceID.String(),
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Rarity:      c.Rarity,
		Attributes:  c.Attributes,
	}
}

func toCollectibleResponses(items []db_models.Collectible) []response_models.CollectibleResponse {
	out := make([]response_models.CollectibleResponse, 0, len(items))
	for i := range items {
		out = append(out, toCollectibleResponse(&items[i]))
	}
	return out
}

func toUserCollectibleResponse(uc *db_models.UserCollectible) response_models.UserCollectibleResponse {
	resp := response_models.UserCollectibleResponse{
		Collectible: toCollectibleResponse(&uc.Collectible),
		UnlockedAt:  utils.FormatRFC3339(uc.UnlockedAt),
	}
	if uc.PhotoID != nil {
		id := uc.PhotoID.String()
		resp.PhotoID = &id
	}
	return resp
}

func toPhotoResponse(p *db_models.Photo) *response_models.PhotoResponse {
	if p == nil {
		return nil
	}
	return &response_models.PhotoResponse{
		ID:          p.ID.String(),
		PlaceID:     p.PlaceID.String(),
		Status:      p.Status,
		URL:         p.URL,
		ContentType: p.ContentType,
		Label:       p.Label,
		Confidence:  p.Confidence,
		CreatedAt:   utils.FormatRFC3339(p.CreatedAt),
	}
}

func toAchievementResponse(a *db_models.Achievement, unlockedAt int64) response_models.AchievementResponse {
	resp := response_models.AchievementResponse{
		ID:            a.ID.String(),
		Code:          a.Code,
		Name:          a.Name,
		Description:   a.Description,
		Icon:          a.Icon,
		CriteriaType:  a.CriteriaType,
		CriteriaValue: a.CriteriaValue,
	}
	if unlockedAt > 0 {
		resp.UnlockedAt = utils.FormatRFC3339(unlockedAt)
	}
	return resp
}
