package ml

// Scaler maps raw features onto the scale the classifier was trained on.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
	FeatureNames() []string
}

// Classifier maps a scaled vector to a class index and a confidence in [0,1].
type Classifier interface {
	Predict(features []float64) (int, float64, error)
	NumFeatures() int
	NumClasses() int
}

// LabelDecoder turns a class index back into the label it was encoded from.
type LabelDecoder interface {
	Decode(index int) (string, error)
	Classes() []string
}
