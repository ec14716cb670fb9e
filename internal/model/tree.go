package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kartoza/house-predictor/internal/features"
)

// TreeNode is a node of a regression tree. Internal nodes route to Left when
// x[Feature] <= Threshold; leaves carry Value.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a flat array of nodes rooted at index 0
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeEnsemble is a gradient boosted regression forest:
// y = (base_score + learning_rate * sum(tree_i(x))) * output_scale
type TreeEnsemble struct {
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	NumFeatures  int     `json:"num_features"`
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
	OutputScale  float64 `json:"output_scale,omitempty"`
}

// LoadTreeEnsemble reads a tree ensemble from a JSON artifact
func LoadTreeEnsemble(path string) (*TreeEnsemble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m TreeEnsemble
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse tree ensemble: %w", err)
	}
	if err := m.check(); err != nil {
		return nil, err
	}

	return &m, nil
}

// check verifies every node reference so Predict can never loop or index out of range
func (m *TreeEnsemble) check() error {
	if m.NumFeatures <= 0 {
		m.NumFeatures = features.Count
	}
	if len(m.Trees) == 0 {
		return errors.New("tree ensemble has no trees")
	}
	if m.LearningRate == 0 {
		m.LearningRate = 1
	}

	for ti, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= m.NumFeatures {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, node.Feature)
			}
			// Children must come after their parent to guarantee termination
			if node.Left <= ni || node.Left >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid left child %d", ti, ni, node.Left)
			}
			if node.Right <= ni || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid right child %d", ti, ni, node.Right)
			}
		}
	}

	return nil
}

// Predict sums the contribution of every tree
func (m *TreeEnsemble) Predict(_ context.Context, fv features.FeatureVector) (float64, error) {
	if err := checkDimension(fv, m.NumFeatures); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, tree := range m.Trees {
		sum += tree.eval(fv)
	}

	return (m.BaseScore + m.LearningRate*sum) * scaleOrOne(m.OutputScale), nil
}

func (t Tree) eval(fv features.FeatureVector) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		if fv[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// Info returns the model configuration
func (m *TreeEnsemble) Info() map[string]interface{} {
	return map[string]interface{}{
		"type":          TypeTreeEnsemble,
		"name":          m.Name,
		"input_dim":     m.NumFeatures,
		"num_trees":     len(m.Trees),
		"learning_rate": m.LearningRate,
		"output_scale":  scaleOrOne(m.OutputScale),
	}
}
