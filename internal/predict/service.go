// Package predict turns feature vectors into house price predictions.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/kartoza/house-predictor/internal/features"
	"github.com/kartoza/house-predictor/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrInvalidInput marks vectors rejected before inference
var ErrInvalidInput = features.ErrInvalidInput

// ErrNonFinite is wrapped in a ModelError when the model output is NaN or infinite
var ErrNonFinite = errors.New("model output is not a finite number")

// ModelError wraps a failure raised by the model itself
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Result is a single prediction
type Result struct {
	Value   float64
	Display string
}

// Options controls request handling
type Options struct {
	// StrictValidation rejects vectors that are not 8 finite numbers before
	// they reach the model. When false the model's own checks apply.
	StrictValidation bool
}

// Service forwards feature vectors to a shared read-only model
type Service struct {
	model  model.Model
	opts   Options
	logger *zap.Logger
	tracer trace.Tracer
}

// New creates a prediction service
func New(m model.Model, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:  m,
		opts:   opts,
		logger: logger,
		tracer: otel.Tracer("github.com/kartoza/house-predictor/internal/predict"),
	}
}

// Predict runs inference. A nil vector is replaced by the default sample record.
func (s *Service) Predict(ctx context.Context, fv features.FeatureVector) (Result, error) {
	if fv == nil {
		fv = features.Default()
	}

	if s.opts.StrictValidation {
		if err := fv.Validate(); err != nil {
			return Result{}, err
		}
	}

	ctx, span := s.tracer.Start(ctx, "model.predict")
	defer span.End()
	span.SetAttributes(attribute.Int("features.count", len(fv)))

	value, err := s.model.Predict(ctx, fv)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, &ModelError{Err: err}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		err := fmt.Errorf("%w: %v", ErrNonFinite, value)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, &ModelError{Err: err}
	}

	s.logger.Debug("prediction",
		zap.Float64s("features", fv),
		zap.Float64("value", value),
	)

	return Result{Value: value, Display: FormatPrediction(value)}, nil
}

// PredictDefault predicts the default sample record
func (s *Service) PredictDefault(ctx context.Context) (Result, error) {
	return s.Predict(ctx, features.Default())
}

// Model returns the underlying model
func (s *Service) Model() model.Model {
	return s.model
}

// StatusCode maps a prediction error to an HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
