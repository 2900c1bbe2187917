package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"xplore/internal/classifier"
	"xplore/internal/imaging"
	"xplore/internal/models/response_models"
	"xplore/internal/placeimage"
	"xplore/internal/policy"
	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

// RecognitionError carries the classifier output alongside a failed
// recognition so clients can show what was seen.
type RecognitionError struct {
	Err         error
	Reason      string
	Predictions []classifier.Prediction
	Best        *classifier.Prediction
}

func (e *RecognitionError) Error() string { return e.Err.Error() }
func (e *RecognitionError) Unwrap() error { return e.Err }

func (e *RecognitionError) Data() *response_models.RecognizeFailureData {
	preds := e.Predictions
	if preds == nil {
		preds = []classifier.Prediction{}
	}
	return &response_models.RecognizeFailureData{
		Predictions:    preds,
		BestPrediction: e.Best,
		Reason:         e.Reason,
	}
}

type RecognitionServiceInterface interface {
	Policy() policy.Confidence
	Recognize(ctx context.Context, userID *uuid.UUID, image []byte) (*response_models.RecognizeResponse, error)
	SaveCollection(ctx context.Context, userID, placeID uuid.UUID, image []byte, best *classifier.Prediction) (*response_models.SaveCollectionResponse, error)
}

type RecognitionService struct {
	classifier classifier.Classifier
	resolver   PlaceResolverInterface
	collection CollectionServiceInterface
	images     *placeimage.Resolver
	policy     policy.Confidence
	log        *logger.Logger
}

func NewRecognitionService(
	c classifier.Classifier,
	resolver PlaceResolverInterface,
	collection CollectionServiceInterface,
	images *placeimage.Resolver,
	p policy.Confidence,
	log *logger.Logger,
) RecognitionServiceInterface {
	return &RecognitionService{
		classifier: c,
		resolver:   resolver,
		collection: collection,
		images:     images,
		policy:     p,
		log:        log.With("service", "RecognitionService"),
	}
}

func (s *RecognitionService) Policy() policy.Confidence { return s.policy }

// Recognize classifies the photo and resolves it to a place. For a signed-in
// user the photo is stored for review, and the place's collectibles unlock
// only when the prediction clears the accept threshold.
func (s *RecognitionService) Recognize(ctx context.Context, userID *uuid.UUID, image []byte) (*response_models.RecognizeResponse, error) {
	info, err := imaging.Inspect(image)
	if err != nil {
		return nil, err
	}

	res := s.classifier.Classify(ctx, image)
	if !res.OK {
		return nil, &RecognitionError{
			Err:         res.Err(),
			Reason:      string(res.Failure),
			Predictions: res.Predictions,
			Best:        res.Best,
		}
	}
	best := *res.Best

	place, err := s.resolver.Resolve(ctx, best.Class)
	if err != nil {
		if errors.Is(err, utils.ErrPlaceNotMatched) || errors.Is(err, utils.ErrPlaceAmbiguous) {
			s.log.Info("prediction did not resolve to a place", "class", best.Class, "confidence", best.Confidence, "error", err)
			reason := "place_not_matched"
			if errors.Is(err, utils.ErrPlaceAmbiguous) {
				reason = "place_ambiguous"
			}
			return nil, &RecognitionError{Err: err, Reason: reason, Predictions: res.Predictions, Best: &best}
		}
		return nil, err
	}

	placeResp := toPlaceResponse(place, s.images)
	resp := &response_models.RecognizeResponse{
		Success:              true,
		Predictions:          res.Predictions,
		BestPrediction:       &best,
		Place:                &placeResp,
		Acceptable:           s.policy.Accepts(best.Confidence),
		Verdict:              s.policy.Verdict(best.Confidence),
		NuevosColeccionables: []response_models.CollectibleResponse{},
		NuevosLogros:         []response_models.AchievementResponse{},
		Policy:               s.policy,
	}

	if userID == nil {
		return resp, nil
	}

	out, err := s.collection.Collect(ctx, CollectInput{
		UserID:     *userID,
		PlaceID:    place.ID,
		Image:      image,
		Info:       info,
		Label:      best.Class,
		Confidence: best.Confidence,
		Unlock:     resp.Acceptable,
	})
	if err != nil {
		return nil, err
	}
	fillCollection(out, &resp.NuevosColeccionables, &resp.NuevosLogros)
	resp.Photo = toPhotoResponse(out.Photo)
	return resp, nil
}

// SaveCollection is the explicit unlock path taken after the user confirms a
// match. best is the prediction the client previewed, if it sent one; it is
// recorded on the photo for moderation.
func (s *RecognitionService) SaveCollection(ctx context.Context, userID, placeID uuid.UUID, image []byte, best *classifier.Prediction) (*response_models.SaveCollectionResponse, error) {
	in := CollectInput{
		UserID:  userID,
		PlaceID: placeID,
		Image:   image,
		Unlock:  true,
	}
	if best != nil {
		if best.Confidence < 0 || best.Confidence > 1 {
			return nil, fmt.Errorf("%w: confidence must be within [0, 1]", utils.ErrInvalidInput)
		}
		in.Label = strings.TrimSpace(best.Class)
		in.Confidence = best.Confidence
	}

	info, err := imaging.Inspect(image)
	if err != nil {
		return nil, err
	}
	in.Info = info
	out, err := s.collection.Collect(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("save collection: %w", err)
	}

	resp := &response_models.SaveCollectionResponse{
		Success:              true,
		NuevosColeccionables: []response_models.CollectibleResponse{},
		NuevosLogros:         []response_models.AchievementResponse{},
		Photo:                toPhotoResponse(out.Photo),
	}
	fillCollection(out, &resp.NuevosColeccionables, &resp.NuevosLogros)
	return resp, nil
}

func fillCollection(out *CollectResult, collectibles *[]response_models.CollectibleResponse, achievements *[]response_models.AchievementResponse) {
	for i := range out.NewCollectibles {
		*collectibles = append(*collectibles, toCollectibleResponse(&out.NewCollectibles[i]))
	}
	for i := range out.NewAchievements {
		a := out.NewAchievements[i]
		*achievements = append(*achievements, toAchievementResponse(&a.Achievement, a.UnlockedAt))
	}
}
