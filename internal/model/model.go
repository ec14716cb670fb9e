// Package model loads serialized regression models and exposes them behind
// a single inference capability.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kartoza/house-predictor/internal/features"
)

// Supported model types
const (
	TypeLinear       = "linear"
	TypeTreeEnsemble = "tree_ensemble"
	TypeMLP          = "mlp"
	TypeSQLite       = "sqlite"
)

var (
	// ErrDimension is returned when a vector does not match the model input size
	ErrDimension = errors.New("feature dimension mismatch")

	// ErrUnsupported is returned for unknown model types or artifact extensions
	ErrUnsupported = errors.New("unsupported model type")
)

// Model predicts a scalar value from a feature vector.
// Implementations are immutable after loading and safe for concurrent use.
type Model interface {
	Predict(ctx context.Context, fv features.FeatureVector) (float64, error)
}

// Describer is implemented by models that can report their configuration
type Describer interface {
	Info() map[string]interface{}
}

// Load reads a model artifact from disk. An empty modelType detects the
// type from the file extension and, for JSON artifacts, the "type" field.
func Load(modelType, path string) (Model, error) {
	if modelType == "" {
		detected, err := DetectType(path)
		if err != nil {
			return nil, err
		}
		modelType = detected
	}

	switch modelType {
	case TypeLinear:
		return LoadLinear(path)
	case TypeTreeEnsemble:
		return LoadTreeEnsemble(path)
	case TypeMLP:
		return LoadMLP(path)
	case TypeSQLite:
		return LoadPack(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, modelType)
	}
}

// DetectType guesses the model type of an artifact
func DetectType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		var header struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &header); err != nil {
			return "", fmt.Errorf("failed to parse model header: %w", err)
		}
		if header.Type == "" {
			return TypeLinear, nil
		}
		return header.Type, nil
	case ".gob":
		return TypeMLP, nil
	case ".modelpack", ".sqlite", ".db":
		return TypeSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot detect type of %s", ErrUnsupported, filepath.Base(path))
	}
}

// checkDimension verifies the vector length against the expected input size
func checkDimension(fv features.FeatureVector, want int) error {
	if len(fv) != want {
		return fmt.Errorf("%w: model expects %d features, got %d", ErrDimension, want, len(fv))
	}
	return nil
}

// scaleOrOne treats a zero output scale as identity
func scaleOrOne(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}
