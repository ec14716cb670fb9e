package predict

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/kartoza/house-predictor/internal/features"
	"github.com/kartoza/house-predictor/internal/model"
)

// sumModel predicts the sum of its inputs and enforces 8 features
type sumModel struct{}

func (sumModel) Predict(_ context.Context, fv features.FeatureVector) (float64, error) {
	if len(fv) != features.Count {
		return 0, model.ErrDimension
	}
	total := 0.0
	for _, v := range fv {
		total += v
	}
	return total, nil
}

func newTestService(strict bool) *Service {
	return New(sumModel{}, Options{StrictValidation: strict}, nil)
}

func TestPredict(t *testing.T) {
	svc := newTestService(true)

	res, err := svc.Predict(context.Background(), features.FeatureVector{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if res.Value != 36 {
		t.Errorf("Expected 36, got %v", res.Value)
	}
	if res.Display != "Predicted House Price: $36.00" {
		t.Errorf("Unexpected display %q", res.Display)
	}
}

func TestPredictNilUsesDefault(t *testing.T) {
	svc := newTestService(true)
	ctx := context.Background()

	omitted, err := svc.Predict(ctx, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	explicit, err := svc.Predict(ctx, features.FeatureVector{8.3252, 41.0, 6.98, 1.02, 322, 2.55, 37.88, -122.23})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	def, err := svc.PredictDefault(ctx)
	if err != nil {
		t.Fatalf("PredictDefault failed: %v", err)
	}

	if omitted.Value != explicit.Value || def.Value != explicit.Value {
		t.Errorf("Expected identical predictions, got %v, %v, %v", omitted.Value, explicit.Value, def.Value)
	}
}

func TestPredictFinite(t *testing.T) {
	svc := newTestService(true)
	vectors := []features.FeatureVector{
		features.Default(),
		make(features.FeatureVector, features.Count),
		{-1, -2, -3, -4, -5, -6, -7, -8},
		{1e6, 52, 141.9, 34, 35682, 1243, 41.95, -114.31},
	}

	for _, fv := range vectors {
		res, err := svc.Predict(context.Background(), fv)
		if err != nil {
			t.Fatalf("Predict(%v) failed: %v", fv, err)
		}
		if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
			t.Errorf("Predict(%v) returned non-finite %v", fv, res.Value)
		}
	}
}

func TestPredictStrictRejectsInvalid(t *testing.T) {
	svc := newTestService(true)

	tests := []struct {
		name string
		fv   features.FeatureVector
	}{
		{"short", features.FeatureVector{1, 2, 3}},
		{"long", make(features.FeatureVector, 9)},
		{"nan", features.FeatureVector{1, 2, 3, 4, 5, 6, 7, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Predict(context.Background(), tt.fv)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if code := StatusCode(err); code != http.StatusUnprocessableEntity {
				t.Errorf("Expected status 422, got %d", code)
			}
		})
	}
}

func TestPredictPermissivePropagatesModelError(t *testing.T) {
	svc := newTestService(false)

	_, err := svc.Predict(context.Background(), features.FeatureVector{1, 2, 3})

	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("Expected ModelError, got %v", err)
	}
	if !errors.Is(err, model.ErrDimension) {
		t.Errorf("Expected wrapped ErrDimension, got %v", err)
	}
	if code := StatusCode(err); code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", code)
	}
}

func TestStatusCodeNil(t *testing.T) {
	if code := StatusCode(nil); code != http.StatusOK {
		t.Errorf("Expected 200, got %d", code)
	}
}

// constModel always predicts the same value
type constModel float64

func (c constModel) Predict(_ context.Context, _ features.FeatureVector) (float64, error) {
	return float64(c), nil
}

func TestPredictRejectsNonFiniteOutput(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		svc := New(constModel(v), Options{StrictValidation: true}, nil)

		_, err := svc.Predict(context.Background(), features.Default())

		var modelErr *ModelError
		if !errors.As(err, &modelErr) {
			t.Fatalf("Output %v: expected ModelError, got %v", v, err)
		}
		if !errors.Is(err, ErrNonFinite) {
			t.Errorf("Output %v: expected wrapped ErrNonFinite, got %v", v, err)
		}
		if code := StatusCode(err); code != http.StatusInternalServerError {
			t.Errorf("Output %v: expected status 500, got %d", v, code)
		}
	}
}
