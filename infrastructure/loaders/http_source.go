package loaders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"srm-backend/application/ports"
	"srm-backend/domain/core/valueobjects"
	pkgerrors "srm-backend/pkg/errors"
)

// maxPayloadBytes caps a remote matrix download
const maxPayloadBytes = 32 << 20

// BreakerConfig configures the circuit breaker around remote fetches
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used when none are configured
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// HTTPSource fetches the matrix from a remote URL through a circuit breaker.
// Decode failures do not count against the breaker; only transport and
// non-2xx responses do.
type HTTPSource struct {
	url     string
	format  Format
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ ports.MatrixSource = (*HTTPSource)(nil)

// NewHTTPSource creates a remote source
func NewHTTPSource(rawURL string, format Format, timeout time.Duration, cfg BreakerConfig, logger *zap.Logger) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid matrix url %q", rawURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &HTTPSource{
		url:     rawURL,
		format:  format,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
	}, nil
}

type fetched struct {
	body        []byte
	contentType string
}

// Load downloads and decodes the matrix
func (s *HTTPSource) Load(ctx context.Context) (*valueobjects.BinaryMatrix, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.NewUnavailableError(s.Describe()).
				WithCode(pkgerrors.CodeSourceFailed).
				WithCause(err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.NewTimeoutError("fetch " + s.Describe()).
				WithCode(pkgerrors.CodeSourceFailed).
				WithCause(err)
		}
		return nil, pkgerrors.NewExternalError(s.Describe(), err).WithCode(pkgerrors.CodeSourceFailed)
	}

	payload := result.(fetched)
	format := s.format
	if format == "" || format == FormatAuto {
		format = DetectFormat(s.url, payload.contentType)
	}

	matrix, err := Decode(bytes.NewReader(payload.body), format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.url, err)
	}
	return matrix, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fetched{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetched{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return fetched{}, err
	}
	if len(body) > maxPayloadBytes {
		return fetched{}, fmt.Errorf("payload exceeds %d bytes", maxPayloadBytes)
	}

	s.logger.Debug("Fetched matrix",
		zap.String("url", s.url),
		zap.Int("bytes", len(body)))

	return fetched{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

// Describe names the source
func (s *HTTPSource) Describe() string {
	return "url:" + s.url
}

// BreakerState exposes the breaker state for readiness reporting
func (s *HTTPSource) BreakerState() string {
	return s.breaker.State().String()
}
