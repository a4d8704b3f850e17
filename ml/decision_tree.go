package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted binary tree stored as a flat node array with the
// root at index 0.
type DecisionTree struct {
	nodes    []TreeNode
	features int
	classes  int
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	ClassLabel int       `json:"class_label"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

// NewDecisionTree checks that nodes form a tree over features inputs and
// classes outputs.
func NewDecisionTree(nodes []TreeNode, features, classes int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, ErrNotTrained
	}
	if features <= 0 || classes <= 0 {
		return nil, fmt.Errorf("tree needs positive feature and class counts, got %d and %d", features, classes)
	}
	for i, node := range nodes {
		if node.IsLeaf {
			if node.ClassLabel < 0 || node.ClassLabel >= classes {
				return nil, fmt.Errorf("node %d: class %d out of range [0,%d)", i, node.ClassLabel, classes)
			}
			if node.Value != nil && len(node.Value) != classes {
				return nil, fmt.Errorf("node %d: value has %d entries, want %d", i, len(node.Value), classes)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= features {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		// children always follow their parent, which also rules out cycles
		if node.LeftChild <= i || node.LeftChild >= len(nodes) || node.RightChild <= i || node.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid children %d/%d", i, node.LeftChild, node.RightChild)
		}
	}
	return &DecisionTree{
		nodes:    append([]TreeNode(nil), nodes...),
		features: features,
		classes:  classes,
	}, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	leaf, err := dt.leaf(features)
	if err != nil {
		return 0, 0, err
	}
	probs := leafDistribution(leaf, dt.classes)
	return leaf.ClassLabel, probs[leaf.ClassLabel], nil
}

// PredictProba returns the class distribution of the leaf features land in.
func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	leaf, err := dt.leaf(features)
	if err != nil {
		return nil, err
	}
	return leafDistribution(leaf, dt.classes), nil
}

func (dt *DecisionTree) NumFeatures() int { return dt.features }

func (dt *DecisionTree) NumClasses() int { return dt.classes }

func (dt *DecisionTree) leaf(features []float64) (TreeNode, error) {
	if len(dt.nodes) == 0 {
		return TreeNode{}, ErrNotTrained
	}
	if len(features) != dt.features {
		return TreeNode{}, fmt.Errorf("%w: tree expects %d features, got %d", ErrArity, dt.features, len(features))
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
}

// leafDistribution normalizes the leaf's class counts. Leaves without counts
// put all their mass on ClassLabel.
func leafDistribution(leaf TreeNode, classes int) []float64 {
	probs := make([]float64, classes)
	total := 0.0
	for _, v := range leaf.Value {
		total += v
	}
	if total <= 0 {
		probs[leaf.ClassLabel] = 1
		return probs
	}
	for i, v := range leaf.Value {
		probs[i] = v / total
	}
	return probs
}
