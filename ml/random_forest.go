package ml

import "fmt"

// RandomForest averages the leaf distributions of its trees, the same soft
// voting a fitted scikit-learn forest uses.
type RandomForest struct {
	trees    []*DecisionTree
	features int
	classes  int
}

func NewRandomForest(trees []*DecisionTree) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, ErrNotTrained
	}
	features, classes := trees[0].NumFeatures(), trees[0].NumClasses()
	for i, tree := range trees[1:] {
		if tree.NumFeatures() != features || tree.NumClasses() != classes {
			return nil, fmt.Errorf("tree %d: shape %dx%d differs from %dx%d", i+1, tree.NumFeatures(), tree.NumClasses(), features, classes)
		}
	}
	return &RandomForest{trees: trees, features: features, classes: classes}, nil
}

// Predict returns the class with the highest mean probability. Ties go to the
// lowest class index.
func (rf *RandomForest) Predict(features []float64) (int, float64, error) {
	probs, err := rf.PredictProba(features)
	if err != nil {
		return 0, 0, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, probs[best], nil
}

func (rf *RandomForest) PredictProba(features []float64) ([]float64, error) {
	sum := make([]float64, rf.classes)
	for _, tree := range rf.trees {
		probs, err := tree.PredictProba(features)
		if err != nil {
			return nil, err
		}
		for i, p := range probs {
			sum[i] += p
		}
	}
	for i := range sum {
		sum[i] /= float64(len(rf.trees))
	}
	return sum, nil
}

func (rf *RandomForest) NumFeatures() int { return rf.features }

func (rf *RandomForest) NumClasses() int { return rf.classes }

// NumTrees reports the ensemble size.
func (rf *RandomForest) NumTrees() int { return len(rf.trees) }
