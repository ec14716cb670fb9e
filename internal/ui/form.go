// Package ui serves the interactive prediction form.
package ui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/kartoza/house-predictor/internal/features"
	"github.com/kartoza/house-predictor/internal/httputil"
	"github.com/kartoza/house-predictor/internal/models"
	"github.com/kartoza/house-predictor/internal/predict"
	"go.uber.org/zap"
)

const (
	// Title is shown at the top of the form
	Title = "🏡 California House Price Predictor"

	// Description is shown under the title
	Description = "Enter house details to get a price prediction"
)

const (
	// maxBodyBytes bounds the size of a JSON prediction request
	maxBodyBytes = 1 << 20

	// maxMessageBytes bounds the size of a websocket message
	maxMessageBytes = 64 << 10
)

//go:embed form.html
var formHTML string

var formTemplate = template.Must(template.New("form").Parse(formHTML))

// field is one numeric input of the form
type field struct {
	Name  string
	Label string
	Value string
}

// page is the template data for the form
type page struct {
	Title       string
	Description string
	Action      string
	SocketPath  string
	Fields      []field
	Prediction  string
	Error       string
}

// Handler serves the form and its JSON and websocket call surfaces
type Handler struct {
	svc      *predict.Service
	path     string
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a form handler mounted at path
func NewHandler(svc *predict.Service, path string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		path:   path,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the form routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(h.path, h.handleForm).Methods("GET")
	r.HandleFunc(h.path, h.handleSubmit).Methods("POST")
	r.HandleFunc(h.path+"/api/predict", h.handleAPIPredict).Methods("POST")
	r.HandleFunc(h.path+"/ws", h.handleSocket).Methods("GET")
}

// PredictPrice formats the prediction for one set of form values
func (h *Handler) PredictPrice(ctx context.Context, fv features.FeatureVector) (string, error) {
	res, err := h.svc.Predict(ctx, fv)
	if err != nil {
		return "", err
	}
	return res.Display, nil
}

// predictData predicts a JSON or websocket request. Unlike /predict, these
// surfaces mirror the form and require all eight values.
func (h *Handler) predictData(ctx context.Context, data []float64) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: data is required", features.ErrInvalidInput)
	}
	return h.PredictPrice(ctx, features.FeatureVector(data))
}

func (h *Handler) newPage(values []string) page {
	p := page{
		Title:       Title,
		Description: Description,
		Action:      h.path,
		SocketPath:  h.path + "/ws",
		Fields:      make([]field, features.Count),
	}
	for i := range p.Fields {
		p.Fields[i] = field{Name: features.Names[i], Label: features.Labels[i]}
		if i < len(values) {
			p.Fields[i].Value = values[i]
		}
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, p); err != nil {
		h.logger.Error("failed to render form", zap.Error(err))
	}
}

// handleForm renders an empty form
func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.newPage(nil))
}

// handleSubmit predicts from the posted form fields and renders the result
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p := h.newPage(nil)
		p.Error = "invalid form submission"
		h.render(w, http.StatusBadRequest, p)
		return
	}

	values := make([]string, features.Count)
	for i, name := range features.Names {
		values[i] = strings.TrimSpace(r.PostFormValue(name))
	}
	p := h.newPage(values)

	fv, err := ParseFields(values)
	if err == nil {
		p.Prediction, err = h.PredictPrice(r.Context(), fv)
	}
	if err != nil {
		status := predict.StatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("form prediction failed", zap.Error(err))
		}
		p.Error = err.Error()
		h.render(w, status, p)
		return
	}

	h.render(w, http.StatusOK, p)
}

// handleAPIPredict is the JSON call surface of the form:
// {"data": [8 numbers]} -> {"data": ["Predicted House Price: $..."]}
func (h *Handler) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var req models.FormRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httputil.RespondJSON(w, http.StatusBadRequest, models.FormResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	text, err := h.predictData(r.Context(), req.Data)
	if err != nil {
		httputil.RespondJSON(w, predict.StatusCode(err), models.FormResponse{Error: err.Error()})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.FormResponse{Data: []string{text}})
}

// ParseFields converts the raw form values into a feature vector
func ParseFields(values []string) (features.FeatureVector, error) {
	if len(values) != features.Count {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", features.ErrInvalidInput, features.Count, len(values))
	}

	fv := make(features.FeatureVector, features.Count)
	for i, raw := range values {
		if raw == "" {
			return nil, fmt.Errorf("%w: %s is required", features.ErrInvalidInput, features.Labels[i])
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("%w: %s is out of range", features.ErrInvalidInput, features.Labels[i])
			}
			return nil, fmt.Errorf("%w: %s must be a number", features.ErrInvalidInput, features.Labels[i])
		}
		fv[i] = v
	}
	return fv, nil
}
