package handler

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rl1809/icecream-stock/internal/metrics"
)

// NewRouter wires routes, CORS and the middleware chain.
// Preflight requests are answered by the CORS layer before routing.
func NewRouter(h *HTTPHandler, m *metrics.HTTPMetrics, allowedOrigins []string, logger *zap.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(requestID, observe(logger, m))

	// Router middleware only runs on matched routes, so the fallbacks are wrapped by hand.
	router.NotFoundHandler = requestID(observe(logger, m)(http.HandlerFunc(routeNotFound)))
	router.MethodNotAllowedHandler = requestID(observe(logger, m)(http.HandlerFunc(methodNotAllowed)))

	h.RegisterRoutes(router)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)

	return recovery(cors(router))
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
