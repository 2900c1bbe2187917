package response_models

import (
	"xplore/internal/classifier"
	"xplore/internal/policy"
)

type RecognizeResponse struct {
	Success              bool                    `json:"success"`
	Predictions          []classifier.Prediction `json:"predictions"`
	BestPrediction       *classifier.Prediction  `json:"bestPrediction"`
	Place                *PlaceResponse          `json:"place"`
	Acceptable           bool                    `json:"acceptable"`
	Verdict              policy.Verdict          `json:"verdict"`
	NuevosColeccionables []CollectibleResponse   `json:"nuevosColeccionables"`
	NuevosLogros         []AchievementResponse   `json:"nuevosLogros"`
	Photo                *PhotoResponse          `json:"photo,omitempty"`
	Policy               policy.Confidence       `json:"policy"`
}

type RecognizeFailureData struct {
	Predictions    []classifier.Prediction `json:"predictions"`
	BestPrediction *classifier.Prediction  `json:"bestPrediction"`
	Reason         string                  `json:"reason,omitempty"`
}

// FailureResponse is the mobile contract shape for IA and auth errors.
type FailureResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	TraceID string                `json:"trace_id,omitempty"`
	Data    *RecognizeFailureData `json:"data,omitempty"`
}

type SaveCollectionResponse struct {
	Success              bool                  `json:"success"`
	NuevosColeccionables []CollectibleResponse `json:"nuevosColeccionables"`
	NuevosLogros         []AchievementResponse `json:"nuevosLogros"`
	Photo                *PhotoResponse        `json:"photo,omitempty"`
}
