package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kartoza/house-predictor/internal/config"
	"github.com/kartoza/house-predictor/internal/httputil"
	"github.com/kartoza/house-predictor/internal/model"
	"github.com/kartoza/house-predictor/internal/models"
	"github.com/kartoza/house-predictor/internal/predict"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the size of a prediction request
const maxBodyBytes = 1 << 20

// Handler provides HTTP API endpoints
type Handler struct {
	svc    *predict.Service
	cfg    config.Config
	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc *predict.Service, cfg config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	if h.cfg.RootDescriptor {
		r.HandleFunc("/", h.handleHome).Methods("GET")
	}

	r.HandleFunc("/predict", h.handlePredict).Methods("POST")

	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Documentation
	r.HandleFunc("/docs", h.handleDocs).Methods("GET")
	r.HandleFunc("/openapi.json", h.handleOpenAPI).Methods("GET")
}

// Descriptor returns the static root descriptor
func (h *Handler) Descriptor() models.ServiceDescriptor {
	return models.ServiceDescriptor{
		Message:  "Welcome to the California House Price Predictor API",
		GradioUI: h.cfg.UIPath,
		APIDocs:  "/docs",
	}
}

// handleHome returns links to the form and the API docs
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.Descriptor())
}

// handlePredict runs the model on the posted features, or on the default
// sample record when the body or its data field is absent
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Predict(r.Context(), req.Data)
	if err != nil {
		status := predict.StatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("prediction failed", zap.Error(err))
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.PredictResponse{Prediction: res.Value})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":           h.cfg.Version,
		"strict_validation": h.cfg.StrictValidation,
		"ui_path":           h.cfg.UIPath,
	}
	if d, ok := h.svc.Model().(model.Describer); ok {
		info["model"] = d.Info()
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}
