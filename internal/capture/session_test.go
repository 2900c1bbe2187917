package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xplore/internal/classifier"
	"xplore/internal/models/response_models"
	"xplore/internal/policy"
)

type fakeAPI struct {
	recognize func() (*response_models.RecognizeResponse, error)
	saved     []string
	labels    []string
	saveErr   error
	block     chan struct{}
	entered   chan struct{}
}

func (f *fakeAPI) Recognize(ctx context.Context, _ string, _ []byte, _ ProgressFunc) (*response_models.RecognizeResponse, error) {
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.recognize()
}

func (f *fakeAPI) SaveCollection(_ context.Context, placeID string, _ []byte, best *classifier.Prediction) (*response_models.SaveCollectionResponse, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, placeID)
	if best != nil {
		f.labels = append(f.labels, best.Class)
	}
	return &response_models.SaveCollectionResponse{Success: true}, nil
}

func recognized(conf float64) func() (*response_models.RecognizeResponse, error) {
	return func() (*response_models.RecognizeResponse, error) {
		best := classifier.Prediction{Class: "Basilica de los Angeles", Confidence: conf}
		return &response_models.RecognizeResponse{
			Success:        true,
			Predictions:    []classifier.Prediction{best},
			BestPrediction: &best,
			Place:          &response_models.PlaceResponse{ID: "place-1", Name: "Basílica de los Ángeles"},
			Policy:         policy.Default(),
		}, nil
	}
}

func TestSessionValidPreviewAndSave(t *testing.T) {
	api := &fakeAPI{recognize: recognized(0.95)}
	s := NewSession(api, policy.Default())
	ctx := context.Background()

	require.NoError(t, s.Begin())
	preview, err := s.Run(ctx, "photo.jpg", []byte("img"), nil)
	require.NoError(t, err)
	assert.True(t, preview.Valid)
	assert.Equal(t, policy.VerdictAccepted, preview.Verdict)
	assert.Equal(t, StatePreviewValid, s.State())

	_, err = s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"place-1"}, api.saved)
	assert.Equal(t, []string{"Basilica de los Angeles"}, api.labels)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Preview())
}

func TestSessionRecognizedBelowAcceptIsInvalid(t *testing.T) {
	api := &fakeAPI{recognize: recognized(0.6)}
	s := NewSession(api, policy.Default())
	ctx := context.Background()

	require.NoError(t, s.Begin())
	preview, err := s.Run(ctx, "photo.jpg", []byte("img"), nil)
	require.NoError(t, err)
	assert.False(t, preview.Valid)
	assert.Equal(t, policy.VerdictRecognized, preview.Verdict)
	assert.Equal(t, StatePreviewInvalid, s.State())

	_, err = s.Save(ctx)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Empty(t, api.saved)

	help, err := s.Help()
	require.NoError(t, err)
	assert.Contains(t, help, "Basilica de los Angeles")
	assert.Contains(t, help, "90%")

	require.NoError(t, s.Retake())
	assert.Equal(t, StateCapturing, s.State())
}

func TestSessionUsesServerPolicy(t *testing.T) {
	api := &fakeAPI{recognize: func() (*response_models.RecognizeResponse, error) {
		resp, _ := recognized(0.8)()
		resp.Policy = policy.Confidence{Floor: 0.3, Accept: 0.75}
		return resp, nil
	}}
	s := NewSession(api, policy.Default())

	require.NoError(t, s.Begin())
	preview, err := s.Run(context.Background(), "photo.jpg", []byte("img"), nil)
	require.NoError(t, err)
	assert.True(t, preview.Valid)
}

func TestSessionFailureRetryAndCancel(t *testing.T) {
	calls := 0
	api := &fakeAPI{recognize: func() (*response_models.RecognizeResponse, error) {
		calls++
		if calls == 1 {
			return nil, &APIError{Status: 504, Message: "timeout"}
		}
		return recognized(0.95)()
	}}
	s := NewSession(api, policy.Default())
	ctx := context.Background()

	require.NoError(t, s.Begin())
	_, err := s.Run(ctx, "photo.jpg", []byte("img"), nil)
	require.Error(t, err)
	assert.Equal(t, StateAnalyzeFailed, s.State())
	assert.Error(t, s.LastError())

	preview, err := s.Retry(ctx, nil)
	require.NoError(t, err)
	assert.True(t, preview.Valid)
	assert.Equal(t, 2, calls)

	require.NoError(t, s.Cancel())
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionSaveFailureKeepsPreview(t *testing.T) {
	api := &fakeAPI{recognize: recognized(0.95), saveErr: errors.New("offline")}
	s := NewSession(api, policy.Default())
	ctx := context.Background()

	require.NoError(t, s.Begin())
	_, err := s.Run(ctx, "photo.jpg", []byte("img"), nil)
	require.NoError(t, err)

	_, err = s.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, StatePreviewValid, s.State())
	assert.NotNil(t, s.Preview())
}

func TestSessionRefusesConcurrentRun(t *testing.T) {
	api := &fakeAPI{
		recognize: recognized(0.95),
		block:     make(chan struct{}),
		entered:   make(chan struct{}),
	}
	s := NewSession(api, policy.Default())
	require.NoError(t, s.Begin())

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), "a.jpg", []byte("a"), nil)
		done <- err
	}()
	<-api.entered

	_, err := s.Run(context.Background(), "b.jpg", []byte("b"), nil)
	assert.True(t, errors.Is(err, ErrBusy))

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, StatePreviewValid, s.State())
}

func TestRunRequiresCapturing(t *testing.T) {
	s := NewSession(&fakeAPI{recognize: recognized(0.95)}, policy.Default())
	_, err := s.Run(context.Background(), "a.jpg", []byte("a"), nil)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestHelpTextWithoutPrediction(t *testing.T) {
	assert.NotEmpty(t, HelpText(policy.VerdictRejected, nil, policy.Default()))
	assert.Contains(t, HelpText(policy.VerdictRejected, &classifier.Prediction{Class: "Poás", Confidence: 0.2}, policy.Default()), "20%")
}
