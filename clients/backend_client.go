package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/logger"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
	"go.uber.org/zap"
)

// maxBody bounds how much of a backend response is read.
const maxBody = 4 << 20

type tokenKey struct{}

// WithAuthToken attaches a bearer token that Do forwards to the backend.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func authToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Envelope is the backend's response wrapper.
type Envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// BackendClient talks to the storefront REST backend.
type BackendClient struct {
	baseURL string
	client  *http.Client
	metrics awspkg.MetricsRecorder
}

// NewBackendClient builds a client. A zero timeout keeps the platform default.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithMetrics records the latency of every backend call on m.
func (b *BackendClient) WithMetrics(m awspkg.MetricsRecorder) *BackendClient {
	b.metrics = m
	return b
}

func (b *BackendClient) BaseURL() string {
	return b.baseURL
}

func (b *BackendClient) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := authToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := logger.RequestIDFrom(ctx); rid != "unknown" {
		req.Header.Set(logger.RequestIDHeader, rid)
	}

	return b.client.Do(req)
}

// call sends in as JSON and decodes the envelope's data into out.
func (b *BackendClient) call(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperrors.Internal("failed to encode request", err)
		}
		body = bytes.NewReader(raw)
	}

	start := time.Now()
	resp, err := b.Do(ctx, method, path, query, nil, body)
	if err != nil {
		b.recordLatency(method, path, "error", time.Since(start))
		if errors.Is(err, context.Canceled) {
			// caller went away; nothing worth logging
			return apperrors.Network(err)
		}
		logger.Warn(ctx, "backend request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("path", path),
		)
		return apperrors.Network(err)
	}

	latency := time.Since(start)
	b.recordLatency(method, path, statusRange(resp.StatusCode), latency)
	logger.Debug(ctx, "backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
	)
	return DecodeEnvelope(resp, out)
}

func (b *BackendClient) recordLatency(method, path, status string, latency time.Duration) {
	if b.metrics == nil || !b.metrics.IsEnabled() {
		return
	}
	dimensions := map[string]string{
		"Method":   method,
		"Resource": resource(path),
		"Status":   status,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = b.metrics.RecordLatency(ctx, awspkg.MetricBackendLatency, latency, dimensions)
	}()
}

// resource keeps the first path segment so ids never become dimensions.
func resource(path string) string {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if seg == "" {
		return "/"
	}
	return "/" + seg
}

func statusRange(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// DecodeEnvelope maps a backend response onto out. Non-2xx statuses and
// success:false become business errors carrying the backend's message verbatim.
func DecodeEnvelope(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return apperrors.Network(fmt.Errorf("read response: %w", err))
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		return apperrors.Business(resp.StatusCode, envelopeMessage(env, resp.StatusCode))
	}
	if decodeErr != nil {
		return apperrors.New(http.StatusBadGateway, apperrors.KindNetwork, "Unexpected response from the store", decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return apperrors.Business(http.StatusUnprocessableEntity, envelopeMessage(env, resp.StatusCode))
	}

	if out == nil || string(env.Data) == "null" {
		return nil
	}
	// Some endpoints (login) put their payload beside success instead of under data.
	payload := []byte(env.Data)
	if len(payload) == 0 {
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.New(http.StatusBadGateway, apperrors.KindNetwork, "Unexpected response from the store", err)
	}
	return nil
}

func envelopeMessage(env Envelope, status int) string {
	switch {
	case env.Message != "":
		return env.Message
	case env.Error != "":
		return env.Error
	default:
		return fmt.Sprintf("Request failed (%d)", status)
	}
}
