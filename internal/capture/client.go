package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptrace"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"xplore/internal/classifier"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
	"xplore/internal/policy"
)

// RecognizeTimeout bounds one recognition request end to end.
const RecognizeTimeout = 65 * time.Second

var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Data    *response_models.RecognizeFailureData
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type Stage string

const (
	StageUpload   Stage = "upload"
	StageWaiting  Stage = "waiting"
	StageReceived Stage = "received"
)

// Progress reports where a recognition request is. Sent and Total are only
// set for StageUpload.
type Progress struct {
	Stage Stage
	Sent  int64
	Total int64
}

type ProgressFunc func(Progress)

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionStore
}

func NewClient(baseURL string, sessions *SessionStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		sessions:   sessions,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*StoredSession, error) {
	body, err := json.Marshal(request_models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp response_models.LoginResponse
	if err := c.do(req, false, &resp); err != nil {
		return nil, err
	}
	sess := &StoredSession{Token: resp.Token, ExpiresAt: resp.ExpiresAt, User: resp.Usuario}
	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}
	return c.sessions.Load()
}

// Logout revokes the token server-side and always forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	defer func() { _ = c.sessions.Clear() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	err = c.do(req, true, nil)
	if errors.Is(err, ErrNotSignedIn) {
		return nil
	}
	return err
}

func (c *Client) Policy(ctx context.Context) (policy.Confidence, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ia/policy", nil)
	if err != nil {
		return policy.Confidence{}, err
	}
	var p policy.Confidence
	if err := c.do(req, false, &p); err != nil {
		return policy.Confidence{}, err
	}
	return p, p.Validate()
}

// Recognize uploads the photo as multipart field "image". Progress is driven
// by the request itself: bytes written, then waiting for the first response
// byte, then received.
func (c *Client) Recognize(ctx context.Context, filename string, image []byte, progress ProgressFunc) (*response_models.RecognizeResponse, error) {
	if progress == nil {
		progress = func(Progress) {}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", http.DetectContentType(image))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, RecognizeTimeout)
	defer cancel()
	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		WroteRequest:         func(httptrace.WroteRequestInfo) { progress(Progress{Stage: StageWaiting}) },
		GotFirstResponseByte: func() { progress(Progress{Stage: StageReceived}) },
	})

	total := int64(buf.Len())
	body := &progressReader{r: bytes.NewReader(buf.Bytes()), total: total, report: progress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ia/recognize", body)
	if err != nil {
		return nil, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp response_models.RecognizeResponse
	if err := c.do(req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveCollection sends the confirmed photo. best, when set, is the prediction
// the user saw and is stored with the photo.
func (c *Client) SaveCollection(ctx context.Context, placeID string, image []byte, best *classifier.Prediction) (*response_models.SaveCollectionResponse, error) {
	body, err := json.Marshal(request_models.SaveCollectionRequest{
		LugarID:        placeID,
		ImageBase64:    base64.StdEncoding.EncodeToString(image),
		BestPrediction: best,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ia/save-collection", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp response_models.SaveCollectionResponse
	if err := c.do(req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do attaches the stored token when present. A 401 on an authenticated call
// means the session is dead, so it is cleared.
func (c *Client) do(req *http.Request, requireAuth bool, out interface{}) error {
	sess, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	} else if requireAuth {
		return ErrNotSignedIn
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		_ = c.sessions.Clear()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads both the flat mobile shape and the envelope; they
// share success/message.
func decodeAPIError(status int, raw []byte) error {
	var body struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	apiErr := &APIError{Status: status}
	if json.Unmarshal(raw, &body) != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	if len(body.Data) > 0 {
		var data response_models.RecognizeFailureData
		if json.Unmarshal(body.Data, &data) == nil && (data.BestPrediction != nil || len(data.Predictions) > 0) {
			apiErr.Data = &data
		}
	}
	return apiErr
}

type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(Progress{Stage: StageUpload, Sent: p.sent, Total: p.total})
	}
	return n, err
}
