package ml

import (
	"encoding/json"
	"fmt"
)

const (
	ModelDecisionTree = "decision_tree"
	ModelRandomForest = "random_forest"
)

type modelFile struct {
	Type      string       `json:"type"`
	NFeatures int          `json:"n_features"`
	NClasses  int          `json:"n_classes"`
	Nodes     []TreeNode   `json:"nodes,omitempty"`
	Trees     [][]TreeNode `json:"trees,omitempty"`
}

// DecodeModel parses a classifier artifact, dispatching on its type field.
func DecodeModel(payload []byte) (Classifier, error) {
	var file modelFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, err
	}

	switch file.Type {
	case ModelDecisionTree:
		tree, err := NewDecisionTree(file.Nodes, file.NFeatures, file.NClasses)
		if err != nil {
			return nil, err
		}
		return tree, nil
	case ModelRandomForest:
		trees := make([]*DecisionTree, 0, len(file.Trees))
		for i, nodes := range file.Trees {
			tree, err := NewDecisionTree(nodes, file.NFeatures, file.NClasses)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			trees = append(trees, tree)
		}
		forest, err := NewRandomForest(trees)
		if err != nil {
			return nil, err
		}
		return forest, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", file.Type)
	}
}
