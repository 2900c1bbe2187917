package request_models

import "xplore/internal/classifier"

type SaveCollectionRequest struct {
	LugarID     string `json:"lugarId" binding:"required,uuid"`
	ImageBase64 string `json:"imageBase64" binding:"required"`
	// BestPrediction echoes the recognition result the user confirmed.
	BestPrediction *classifier.Prediction `json:"bestPrediction,omitempty"`
}
