package classifier

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xplore/internal/policy"
	"xplore/pkg/logger"
)

const (
	DefaultRoboflowURL     = "https://detect.roboflow.com"
	DefaultRoboflowTimeout = 60 * time.Second

	maxResponseBytes = 4 << 20
)

type RoboflowConfig struct {
	BaseURL string
	APIKey  string
	Project string
	Version string
	Timeout time.Duration
}

type RoboflowClient struct {
	HTTP     *http.Client
	endpoint url.URL
	apiKey   string
	timeout  time.Duration
	policy   policy.Confidence
	log      *logger.Logger
}

func NewRoboflowClient(cfg RoboflowConfig, p policy.Confidence, log *logger.Logger) (*RoboflowClient, error) {
	var missing []string
	if strings.TrimSpace(cfg.APIKey) == "" {
		missing = append(missing, "ROBOFLOW_API_KEY")
	}
	if strings.TrimSpace(cfg.Project) == "" {
		missing = append(missing, "ROBOFLOW_PROJECT")
	}
	if strings.TrimSpace(cfg.Version) == "" {
		missing = append(missing, "ROBOFLOW_VERSION")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("roboflow: missing %s", strings.Join(missing, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultRoboflowURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("roboflow: invalid base url %q", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + url.PathEscape(cfg.Project) + "/" + url.PathEscape(cfg.Version)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRoboflowTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &RoboflowClient{
		HTTP:     &http.Client{},
		endpoint: *u,
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		policy:   p,
		log:      log.With("service", "classifier.Roboflow"),
	}, nil
}

func (c *RoboflowClient) Name() string { return "roboflow" }

func (c *RoboflowClient) Classify(ctx context.Context, image []byte) Result {
	if len(image) == 0 {
		return failed(FailureInvalidInput, 0, "image is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.endpoint
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	body := base64.StdEncoding.EncodeToString(image)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(body))
	if err != nil {
		return failed(FailureInvalidInput, 0, "build request: %v", redact(err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return failed(FailureTimeout, 0, "roboflow did not answer within %s", c.timeout)
		}
		return failed(FailureNetwork, 0, "roboflow request failed: %v", redact(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return failed(FailureTimeout, resp.StatusCode, "roboflow did not answer within %s", c.timeout)
		}
		return failed(FailureNetwork, resp.StatusCode, "read roboflow response: %v", redact(err))
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return failed(FailureUpstreamUnavailable, resp.StatusCode, "roboflow unavailable: %s", resp.Status)
	case resp.StatusCode >= http.StatusBadRequest:
		c.log.Warn("roboflow rejected request", "status", resp.StatusCode, "body", snippet(raw))
		return failed(FailureUpstreamRejected, resp.StatusCode, "roboflow rejected the request: %s", resp.Status)
	}

	preds, err := Normalize(raw)
	if err != nil {
		c.log.Warn("unparseable roboflow response", "error", err, "body", snippet(raw))
		return failed(FailureEmpty, resp.StatusCode, "roboflow response could not be parsed")
	}
	res := Evaluate(preds, c.policy)
	res.StatusCode = resp.StatusCode
	return res
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// redact drops the request URL from transport errors; it carries the api key.
func redact(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Op + ": " + ue.Err.Error()
	}
	return err.Error()
}

func snippet(raw []byte) string {
	const n = 256
	if len(raw) > n {
		return string(raw[:n]) + "..."
	}
	return string(raw)
}
