package model

import (
	"encoding/gob"
	"math"
	"math/rand"
	"os"

	"github.com/kartoza/house-predictor/internal/features"
)

// Helpers that build and write MLP artifacts for the loader tests.

// mlpConfig holds test network configuration
type mlpConfig struct {
	InputDim    int
	HiddenDim   int
	NumLayers   int
	OutputScale float64
	Seed        int64
}

func defaultMLPConfig() mlpConfig {
	return mlpConfig{
		InputDim:    features.Count,
		HiddenDim:   32,
		NumLayers:   3,
		OutputScale: 1,
		Seed:        1,
	}
}

// newMLP creates a network with Xavier initialized weights
func newMLP(cfg mlpConfig) *MLP {
	if cfg.NumLayers < 1 {
		cfg.NumLayers = 1
	}
	m := &MLP{
		inputDim:    cfg.InputDim,
		hiddenDim:   cfg.HiddenDim,
		numLayers:   cfg.NumLayers,
		outputScale: cfg.OutputScale,
	}
	m.initWeights(rand.New(rand.NewSource(cfg.Seed)))
	return m
}

// initWeights initializes all layers: input -> hidden ... hidden -> 1
func (m *MLP) initWeights(rng *rand.Rand) {
	m.layers = make([]mlpLayer, m.numLayers)
	for i := 0; i < m.numLayers; i++ {
		in, out := m.hiddenDim, m.hiddenDim
		if i == 0 {
			in = m.inputDim
		}
		if i == m.numLayers-1 {
			out = 1
		}
		m.layers[i] = newLayer(rng, in, out)
	}
}

func newLayer(rng *rand.Rand, rows, cols int) mlpLayer {
	scale := math.Sqrt(2.0 / float64(rows+cols))
	weights := make([][]float64, rows)
	for r := range weights {
		weights[r] = make([]float64, cols)
		for c := range weights[r] {
			weights[r][c] = (rng.Float64()*2 - 1) * scale
		}
	}
	return mlpLayer{Weights: weights, Biases: make([]float64, cols)}
}

// save writes the network to disk
func (m *MLP) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := mlpFile{
		InputDim:    m.inputDim,
		HiddenDim:   m.hiddenDim,
		NumLayers:   m.numLayers,
		OutputScale: m.outputScale,
		Layers:      m.layers,
	}

	return gob.NewEncoder(f).Encode(data)
}

