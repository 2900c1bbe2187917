package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"xplore/internal/classifier"
	"xplore/internal/models/response_models"
	"xplore/internal/policy"
)

var ErrBusy = errors.New("a recognition is already running for this session")

// API is the part of the HTTP client a capture session needs.
type API interface {
	Recognize(ctx context.Context, filename string, image []byte, progress ProgressFunc) (*response_models.RecognizeResponse, error)
	SaveCollection(ctx context.Context, placeID string, image []byte, best *classifier.Prediction) (*response_models.SaveCollectionResponse, error)
}

// Preview is what the user sees after a successful analysis.
type Preview struct {
	Result  *response_models.RecognizeResponse
	Valid   bool
	Verdict policy.Verdict
	Help    string
}

// Session runs one capture at a time. The fallback policy is only used when
// the server response does not carry its own thresholds.
type Session struct {
	api      API
	fallback policy.Confidence
	running  atomic.Bool

	mu       sync.Mutex
	state    State
	filename string
	image    []byte
	preview  *Preview
	lastErr  error
}

func NewSession(api API, fallback policy.Confidence) *Session {
	return &Session{api: api, fallback: fallback, state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Preview() *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) fire(ev Event, valid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Next(s.state, ev, valid)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Begin opens the camera or picker.
func (s *Session) Begin() error { return s.fire(EventCapture, false) }

func (s *Session) Cancel() error {
	if err := s.fire(EventCancel, false); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *Session) Retake() error {
	if err := s.fire(EventRetake, false); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image, s.filename, s.preview, s.lastErr = nil, "", nil, nil
}

// Run hands the acquired photo to the recognizer and moves to a preview, or
// to the failed state on error.
func (s *Session) Run(ctx context.Context, filename string, image []byte, progress ProgressFunc) (*Preview, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	if err := s.fire(EventPhotoAcquired, false); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.filename, s.image = filename, image
	s.mu.Unlock()
	return s.analyze(ctx, progress)
}

// Retry re-sends the same photo after a failed analysis.
func (s *Session) Retry(ctx context.Context, progress ProgressFunc) (*Preview, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	if err := s.fire(EventRetry, false); err != nil {
		return nil, err
	}
	return s.analyze(ctx, progress)
}

func (s *Session) analyze(ctx context.Context, progress ProgressFunc) (*Preview, error) {
	s.mu.Lock()
	filename, image := s.filename, s.image
	s.mu.Unlock()

	resp, err := s.api.Recognize(ctx, filename, image, progress)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		if ferr := s.fire(EventAnalyzeFailed, false); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}

	p := resp.Policy
	if p.Validate() != nil || p.Accept == 0 {
		p = s.fallback
	}
	preview := &Preview{Result: resp}
	if resp.BestPrediction != nil {
		preview.Verdict = p.Verdict(resp.BestPrediction.Confidence)
		preview.Valid = resp.Place != nil && p.Accepts(resp.BestPrediction.Confidence)
	} else {
		preview.Verdict = policy.VerdictRejected
	}
	if !preview.Valid {
		preview.Help = HelpText(preview.Verdict, resp.BestPrediction, p)
	}

	if err := s.fire(EventAnalyzeSucceeded, preview.Valid); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.preview, s.lastErr = preview, nil
	s.mu.Unlock()
	return preview, nil
}

// Help returns the contextual hint for an invalid preview.
func (s *Session) Help() (string, error) {
	if err := s.fire(EventHelp, false); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.Help, nil
}

// Save stores a valid match. On failure the valid preview is kept so the
// user can try again.
func (s *Session) Save(ctx context.Context) (*response_models.SaveCollectionResponse, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	if err := s.fire(EventSave, false); err != nil {
		return nil, err
	}
	s.mu.Lock()
	preview, image := s.preview, s.image
	s.mu.Unlock()

	resp, err := s.api.SaveCollection(ctx, preview.Result.Place.ID, image, preview.Result.BestPrediction)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		_ = s.fire(EventSaveFailed, false)
		return nil, err
	}
	if err := s.fire(EventSaveSucceeded, false); err != nil {
		return nil, err
	}
	s.reset()
	return resp, nil
}
