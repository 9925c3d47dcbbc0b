package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seedmart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPVerifier_Verify(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantBuyerID int64
		wantErr     error
		wantAnyErr  bool
	}{
		{
			name: "Valid token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"buyerId": 42}`))
			},
			wantBuyerID: 42,
		},
		{
			name: "Rejected token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: model.ErrUnauthenticated,
		},
		{
			name: "Zero buyer id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"buyerId": 0}`))
			},
			wantErr: model.ErrUnauthenticated,
		},
		{
			name: "Auth service failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			verifier := NewHTTPVerifier(server.URL, 2*time.Second, zerolog.Nop())

			buyerID, err := verifier.Verify(context.Background(), "good-token")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantAnyErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBuyerID, buyerID)
		})
	}
}

func TestHTTPVerifier_Verify_Unreachable(t *testing.T) {
	verifier := NewHTTPVerifier("http://127.0.0.1:1", 500*time.Millisecond, zerolog.Nop())

	_, err := verifier.Verify(context.Background(), "token")

	require.Error(t, err)
}

func TestBuyerContext(t *testing.T) {
	ctx := context.Background()

	_, ok := BuyerFromContext(ctx)
	assert.False(t, ok)

	ctx = WithBuyer(ctx, 7)
	buyerID, ok := BuyerFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), buyerID)
}
