package router

import (
	"net/http"
	"strings"

	"seedmart/internal/auth"
	"seedmart/internal/handler"
	"seedmart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	verifier auth.Verifier,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		isCollection := r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/"

		switch {
		case r.Method == http.MethodPost && isCollection:
			orderHandler.Create(w, r)
		case r.Method == http.MethodGet && isCollection:
			orderHandler.List(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
			orderHandler.Cancel(w, r)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/orders/"):
			orderHandler.GetByNumber(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> BearerAuth
	var h http.Handler = mux
	h = middleware.BearerAuth(verifier, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
