package models

import "github.com/kartoza/house-predictor/internal/features"

// PredictRequest is the body of POST /predict. A missing or null Data
// field selects the default sample record.
type PredictRequest struct {
	Data features.FeatureVector `json:"data"`
}

// PredictResponse contains the raw model output
type PredictResponse struct {
	Prediction float64 `json:"prediction"`
}

// ServiceDescriptor is returned by the root endpoint
type ServiceDescriptor struct {
	Message  string `json:"message"`
	GradioUI string `json:"gradio_ui"`
	APIDocs  string `json:"api_docs"`
}

// FormRequest is the body of the form's JSON call surface
type FormRequest struct {
	Data []float64 `json:"data"`
}

// FormResponse carries the formatted form output
type FormResponse struct {
	Data  []string `json:"data,omitempty"`
	Error string   `json:"error,omitempty"`
}
