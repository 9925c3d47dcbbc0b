package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seedmart/internal/model"

	"github.com/rs/zerolog"
)

// Verifier resolves a bearer token to a buyer identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (int64, error)
}

// HTTPVerifier calls the external auth service to validate bearer tokens.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPVerifier creates a verifier backed by the auth service at baseURL.
func NewHTTPVerifier(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Verify validates the token against the auth service and returns the buyer id.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/auth/me", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Msg("auth service unreachable")
		return 0, fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			BuyerID int64 `json:"buyerId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return 0, fmt.Errorf("failed to decode auth response: %w", err)
		}
		if body.BuyerID <= 0 {
			return 0, model.ErrUnauthenticated
		}
		return body.BuyerID, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		return 0, model.ErrUnauthenticated

	default:
		v.logger.Error().Int("status", resp.StatusCode).Msg("unexpected auth service response")
		return 0, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
}

type contextKey struct{}

// WithBuyer stores the authenticated buyer id on the context.
func WithBuyer(ctx context.Context, buyerID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, buyerID)
}

// BuyerFromContext returns the authenticated buyer id, if any.
func BuyerFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}
