package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"xplore/internal/models/db_models"
	"xplore/internal/repositories"
	"xplore/pkg/utils"
)

type PlaceResolverInterface interface {
	Resolve(ctx context.Context, label string) (*db_models.Place, error)
}

// PlaceResolver maps a classifier label onto exactly one place. The label
// table wins, then an exact name match, then a unique substring match.
type PlaceResolver struct {
	placeRepo repositories.PlaceRepository
}

func NewPlaceResolver(placeRepo repositories.PlaceRepository) PlaceResolverInterface {
	return &PlaceResolver{placeRepo: placeRepo}
}

// NormalizeLabel lowercases, strips diacritics, turns '_' and '-' into
// spaces and collapses whitespace.
func NormalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("_", " ", "-", " ").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

func (r *PlaceResolver) Resolve(ctx context.Context, label string) (*db_models.Place, error) {
	key := NormalizeLabel(label)
	if key == "" {
		return nil, fmt.Errorf("%w: empty label", utils.ErrPlaceNotMatched)
	}

	place, err := r.placeRepo.FindByLabel(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if place != nil {
		return place, nil
	}

	candidates, err := r.placeRepo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	var exact, partial []db_models.Place
	for _, c := range candidates {
		name := NormalizeLabel(c.Name)
		switch {
		case name == key:
			exact = append(exact, c)
		case strings.Contains(name, key):
			partial = append(partial, c)
		}
	}

	for _, matches := range [][]db_models.Place{exact, partial} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return r.load(ctx, matches[0])
		default:
			return nil, fmt.Errorf("%w: %q matches %d places", utils.ErrPlaceAmbiguous, label, len(matches))
		}
	}
	return nil, fmt.Errorf("%w: %q", utils.ErrPlaceNotMatched, label)
}

func (r *PlaceResolver) load(ctx context.Context, match db_models.Place) (*db_models.Place, error) {
	place, err := r.placeRepo.FindByID(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}
	return place, nil
}
