package model

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/kartoza/house-predictor/internal/features"
)

// MLP is a feed-forward network with ReLU hidden layers and a single linear output.
// Networks are trained elsewhere; only inference lives here.
type MLP struct {
	layers      []mlpLayer
	inputDim    int
	hiddenDim   int
	numLayers   int
	outputScale float64
}

// mlpLayer is a dense layer with weights laid out as [in][out]
type mlpLayer struct {
	Weights [][]float64
	Biases  []float64
}

// Predict runs a forward pass
func (m *MLP) Predict(_ context.Context, fv features.FeatureVector) (float64, error) {
	if err := checkDimension(fv, m.inputDim); err != nil {
		return 0, err
	}

	hidden := []float64(fv)
	for i, layer := range m.layers {
		next := make([]float64, len(layer.Biases))
		copy(next, layer.Biases)
		for r, x := range hidden {
			for c, w := range layer.Weights[r] {
				next[c] += x * w
			}
		}

		// ReLU for hidden layers, none for output
		if i < len(m.layers)-1 {
			for c := range next {
				if next[c] < 0 {
					next[c] = 0
				}
			}
		}
		hidden = next
	}

	return hidden[0] * scaleOrOne(m.outputScale), nil
}

// Info returns the network configuration
func (m *MLP) Info() map[string]interface{} {
	return map[string]interface{}{
		"type":         TypeMLP,
		"input_dim":    m.inputDim,
		"hidden_dim":   m.hiddenDim,
		"num_layers":   m.numLayers,
		"output_scale": scaleOrOne(m.outputScale),
	}
}

// mlpFile is the gob encoded artifact layout
type mlpFile struct {
	InputDim    int
	HiddenDim   int
	NumLayers   int
	OutputScale float64
	Layers      []mlpLayer
}

// LoadMLP reads a gob encoded network. Layers run input -> hidden ... -> 1
// and their widths must chain.
func LoadMLP(path string) (*MLP, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var data mlpFile
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode mlp: %w", err)
	}

	if len(data.Layers) == 0 || len(data.Layers) != data.NumLayers {
		return nil, fmt.Errorf("mlp has %d layers, expected %d", len(data.Layers), data.NumLayers)
	}

	// Each layer's input width must match the previous layer's output width
	width := data.InputDim
	for i, layer := range data.Layers {
		if len(layer.Weights) != width {
			return nil, fmt.Errorf("mlp layer %d has %d inputs, expected %d", i, len(layer.Weights), width)
		}
		for _, row := range layer.Weights {
			if len(row) != len(layer.Biases) {
				return nil, fmt.Errorf("mlp layer %d has inconsistent width", i)
			}
		}
		width = len(layer.Biases)
	}
	if width != 1 {
		return nil, fmt.Errorf("mlp output width is %d, expected 1", width)
	}

	return &MLP{
		layers:      data.Layers,
		inputDim:    data.InputDim,
		hiddenDim:   data.HiddenDim,
		numLayers:   data.NumLayers,
		outputScale: data.OutputScale,
	}, nil
}
