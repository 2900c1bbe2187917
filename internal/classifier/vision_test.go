package classifier

import (
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLandmarkPredictions(t *testing.T) {
	preds := LandmarkPredictions([]*visionpb.EntityAnnotation{
		{Description: "Teatro Nacional", Score: 0.4},
		{Description: " ", Score: 0.99},
		nil,
		{
			Description: "Basílica de los Ángeles",
			Score:       0.9,
			BoundingPoly: &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
				{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 30}, {X: 10, Y: 30},
			}},
		},
	})

	require.Len(t, preds, 2)
	assert.Equal(t, "Basílica de los Ángeles", preds[0].Class)
	require.NotNil(t, preds[0].BoundingBox)
	assert.Equal(t, BoundingBox{X: 30, Y: 20, Width: 40, Height: 20}, *preds[0].BoundingBox)
	assert.Nil(t, preds[1].BoundingBox)
}

func TestFailureFromStatus(t *testing.T) {
	assert.Equal(t, FailureTimeout, failureFromStatus(status.Error(codes.DeadlineExceeded, "slow"), 0).Failure)
	assert.Equal(t, FailureUpstreamRejected, failureFromStatus(status.Error(codes.PermissionDenied, "no"), 0).Failure)
	assert.Equal(t, FailureUpstreamUnavailable, failureFromStatus(status.Error(codes.Unavailable, "down"), 0).Failure)
}
