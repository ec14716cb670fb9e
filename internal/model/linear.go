package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kartoza/house-predictor/internal/features"
)

// Linear is a linear regression with optional per-feature standardization:
// y = (intercept + sum(w_i * (x_i - mean_i) / scale_i)) * output_scale
type Linear struct {
	Type         string    `json:"type"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
	OutputScale  float64   `json:"output_scale,omitempty"`
}

// LoadLinear reads a linear model from a JSON artifact
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Linear
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse linear model: %w", err)
	}
	if err := m.check(); err != nil {
		return nil, err
	}

	return &m, nil
}

// check validates the coefficient layout
func (m *Linear) check() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("linear model has no coefficients")
	}
	if m.Mean != nil && len(m.Mean) != len(m.Coefficients) {
		return fmt.Errorf("linear model mean has %d values, expected %d", len(m.Mean), len(m.Coefficients))
	}
	if m.Scale != nil && len(m.Scale) != len(m.Coefficients) {
		return fmt.Errorf("linear model scale has %d values, expected %d", len(m.Scale), len(m.Coefficients))
	}
	for i, s := range m.Scale {
		if s == 0 {
			return fmt.Errorf("linear model scale[%d] is zero", i)
		}
	}
	return nil
}

// Predict evaluates the regression
func (m *Linear) Predict(_ context.Context, fv features.FeatureVector) (float64, error) {
	if err := checkDimension(fv, len(m.Coefficients)); err != nil {
		return 0, err
	}

	y := m.Intercept
	for i, w := range m.Coefficients {
		x := fv[i]
		if m.Mean != nil {
			x -= m.Mean[i]
		}
		if m.Scale != nil {
			x /= m.Scale[i]
		}
		y += w * x
	}

	return y * scaleOrOne(m.OutputScale), nil
}

// Info returns the model configuration
func (m *Linear) Info() map[string]interface{} {
	return map[string]interface{}{
		"type":         TypeLinear,
		"name":         m.Name,
		"input_dim":    len(m.Coefficients),
		"standardized": m.Mean != nil || m.Scale != nil,
		"output_scale": scaleOrOne(m.OutputScale),
	}
}
