package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xplore/internal/policy"
	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

const visionMaxResults = 10

// VisionClient classifies photos with Cloud Vision landmark detection.
type VisionClient struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
	policy  policy.Confidence
	log     *logger.Logger
}

func NewVisionClient(ctx context.Context, timeout time.Duration, p policy.Confidence, log *logger.Logger) (*VisionClient, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c, err := vision.NewImageAnnotatorClient(ctx, utils.GCPClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultRoboflowTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &VisionClient{
		client:  c,
		timeout: timeout,
		policy:  p,
		log:     log.With("service", "classifier.Vision"),
	}, nil
}

func (v *VisionClient) Name() string { return "gcp_vision" }

func (v *VisionClient) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

func (v *VisionClient) Classify(ctx context.Context, image []byte) Result {
	if len(image) == 0 {
		return failed(FailureInvalidInput, 0, "image is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_LANDMARK_DETECTION, MaxResults: visionMaxResults},
			},
		}},
	}
	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return failureFromStatus(err, v.timeout)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return failed(FailureEmpty, 0, "vision returned no annotations")
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		v.log.Warn("vision annotate error", "code", r0.Error.Code, "message", r0.Error.Message)
		return failed(FailureUpstreamRejected, 0, "vision rejected the image: %s", r0.Error.Message)
	}

	return Evaluate(LandmarkPredictions(r0.LandmarkAnnotations), v.policy)
}

// LandmarkPredictions maps landmark annotations onto predictions, ordered
// by score.
func LandmarkPredictions(annotations []*visionpb.EntityAnnotation) []Prediction {
	preds := make([]Prediction, 0, len(annotations))
	for _, a := range annotations {
		if a == nil || strings.TrimSpace(a.Description) == "" {
			continue
		}
		preds = append(preds, Prediction{
			Class:       strings.TrimSpace(a.Description),
			Confidence:  scale(float64(a.Score)),
			BoundingBox: boxFromPoly(a.BoundingPoly),
		})
	}
	sortPredictions(preds)
	return preds
}

func boxFromPoly(poly *visionpb.BoundingPoly) *BoundingBox {
	if poly == nil || len(poly.Vertices) == 0 || poly.Vertices[0] == nil {
		return nil
	}
	minX, minY := poly.Vertices[0].X, poly.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, vt := range poly.Vertices[1:] {
		if vt == nil {
			continue
		}
		minX, maxX = min(minX, vt.X), max(maxX, vt.X)
		minY, maxY = min(minY, vt.Y), max(maxY, vt.Y)
	}
	w, h := float64(maxX-minX), float64(maxY-minY)
	return &BoundingBox{
		X:      float64(minX) + w/2,
		Y:      float64(minY) + h/2,
		Width:  w,
		Height: h,
	}
}

func failureFromStatus(err error, timeout time.Duration) Result {
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return failed(FailureTimeout, 0, "vision did not answer within %s", timeout)
	case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated,
		codes.ResourceExhausted, codes.FailedPrecondition:
		return failed(FailureUpstreamRejected, 0, "vision rejected the request: %s", status.Convert(err).Message())
	case codes.Unavailable, codes.Internal, codes.Unknown:
		return failed(FailureUpstreamUnavailable, 0, "vision unavailable: %s", status.Convert(err).Message())
	default:
		return failed(FailureNetwork, 0, "vision request failed: %v", err)
	}
}
