package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rl1809/icecream-stock/internal/core/domain"
	"github.com/rl1809/icecream-stock/internal/core/service"
)

const notFoundMessage = "Ice cream not found"

type HealthReporter interface {
	Healthy() bool
}

type HTTPHandler struct {
	stockService *service.StockService
	health       HealthReporter
	logger       *zap.Logger
}

// UpdateStockHTTPRequest uses pointers so an absent field can be told apart from zero.
type UpdateStockHTTPRequest struct {
	Stock       *int `json:"stock"`
	MaxStock    *int `json:"max_stock"`
	TargetStock *int `json:"target_stock"`
}

type ErrorHTTPResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(stockService *service.StockService, health HealthReporter, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		stockService: stockService,
		health:       health,
		logger:       logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stock", h.ListStock).Methods(http.MethodGet)
	router.HandleFunc("/api/stock/{name}", h.UpdateStock).Methods(http.MethodPut)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

func (h *HTTPHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.stockService.ListStock(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req UpdateStockHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Stock == nil || req.MaxStock == nil || req.TargetStock == nil {
		writeError(w, http.StatusBadRequest, "missing required fields: stock, max_stock, target_stock")
		return
	}

	item, err := h.stockService.UpdateStock(r.Context(), name, domain.StockLevels{
		Stock:       *req.Stock,
		MaxStock:    *req.MaxStock,
		TargetStock: *req.TargetStock,
	})
	if errors.Is(err, service.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.health.Healthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorHTTPResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
