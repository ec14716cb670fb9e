package api

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/kartoza/house-predictor/internal/features"
	"github.com/kartoza/house-predictor/internal/httputil"
	"go.uber.org/zap"
)

//go:embed docs.html
var docsHTML string

var docsTemplate = template.Must(template.New("docs").Parse(docsHTML))

// endpointDoc describes one route for the documentation page
type endpointDoc struct {
	Method      string
	Path        string
	Summary     string
	Request     string
	Response    string
	Description string
}

func (h *Handler) endpoints() []endpointDoc {
	var docs []endpointDoc
	if h.cfg.RootDescriptor {
		docs = append(docs, endpointDoc{
			Method:   "GET",
			Path:     "/",
			Summary:  "Service descriptor",
			Response: `{"message": "...", "gradio_ui": "` + h.cfg.UIPath + `", "api_docs": "/docs"}`,
		})
	}
	docs = append(docs,
		endpointDoc{
			Method:      "POST",
			Path:        "/predict",
			Summary:     "Predict a house price",
			Request:     `{"data": [8.3252, 41.0, 6.98, 1.02, 322, 2.55, 37.88, -122.23]}`,
			Response:    `{"prediction": 4.526}`,
			Description: "The body is optional. Without data the sample record shown above is used.",
		},
		endpointDoc{
			Method:   "GET",
			Path:     h.cfg.UIPath,
			Summary:  "Interactive prediction form",
			Response: "HTML",
		},
		endpointDoc{
			Method:   "POST",
			Path:     h.cfg.UIPath + "/api/predict",
			Summary:  "Formatted prediction",
			Request:  `{"data": [8 numbers]}`,
			Response: `{"data": ["Predicted House Price: $X,XXX.XX"]}`,
		},
		endpointDoc{Method: "GET", Path: "/health", Summary: "Health check", Response: `{"status": "ok"}`},
		endpointDoc{Method: "GET", Path: "/info", Summary: "Version and model information"},
		endpointDoc{Method: "GET", Path: "/openapi.json", Summary: "OpenAPI document"},
	)
	return docs
}

// handleDocs renders the API documentation page
func (h *Handler) handleDocs(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Version   string
		Endpoints []endpointDoc
		Features  [features.Count]string
		Labels    [features.Count]string
	}{
		Version:   h.cfg.Version,
		Endpoints: h.endpoints(),
		Features:  features.Names,
		Labels:    features.Labels,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsTemplate.Execute(w, data); err != nil {
		h.logger.Error("failed to render docs", zap.Error(err))
	}
}

// handleOpenAPI serves an OpenAPI 3 description of the JSON endpoints
func (h *Handler) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.OpenAPI())
}

// OpenAPI builds the OpenAPI document
func (h *Handler) OpenAPI() map[string]interface{} {
	featureVector := map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "number"},
		"minItems":    features.Count,
		"maxItems":    features.Count,
		"description": "med_inc, house_age, rooms, bedrooms, population, households, lat, lon",
		"default":     features.Default(),
	}
	errorSchema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"error": map[string]interface{}{"type": "string"}},
	}
	errorResponse := func(desc string) map[string]interface{} {
		return map[string]interface{}{
			"description": desc,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{"schema": errorSchema},
			},
		}
	}

	paths := map[string]interface{}{
		"/predict": map[string]interface{}{
			"post": map[string]interface{}{
				"summary": "Predict a house price",
				"requestBody": map[string]interface{}{
					"required": false,
					"content": map[string]interface{}{
						"application/json": map[string]interface{}{
							"schema": map[string]interface{}{
								"type":       "object",
								"properties": map[string]interface{}{"data": featureVector},
							},
						},
					},
				},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "Prediction",
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"prediction": map[string]interface{}{"type": "number"},
									},
								},
							},
						},
					},
					"400": errorResponse("Malformed request body"),
					"422": errorResponse("Invalid feature vector"),
					"500": errorResponse("Model failure"),
				},
			},
		},
		"/health": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":   "Health check",
				"responses": map[string]interface{}{"200": map[string]interface{}{"description": "OK"}},
			},
		},
	}

	if h.cfg.RootDescriptor {
		paths["/"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary": "Service descriptor",
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "Links to the form and the documentation",
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"message":   map[string]interface{}{"type": "string"},
										"gradio_ui": map[string]interface{}{"type": "string"},
										"api_docs":  map[string]interface{}{"type": "string"},
									},
								},
							},
						},
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":   "California House Price Predictor",
			"version": h.cfg.Version,
		},
		"paths": paths,
	}
}
