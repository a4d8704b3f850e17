package ml

import "math"

// FeatureVector is one soil sample as entered by the user.
type FeatureVector struct {
	Ph float64 `json:"ph"`
	K  float64 `json:"k"`
	P  float64 `json:"p"`
	N  float64 `json:"n"`
}

// Bound is the closed input range accepted for a single feature.
type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FeatureSpec describes one input field of the form.
type FeatureSpec struct {
	Name    string  `json:"name"`
	Bound   Bound   `json:"bound"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

const inputStep = 0.1

var featureSpecs = []FeatureSpec{
	{Name: "Ph", Bound: Bound{Min: 0, Max: 14}, Default: 6.0, Step: inputStep},
	{Name: "K", Bound: Bound{Min: 0, Max: 300}, Default: 100.0, Step: inputStep},
	{Name: "P", Bound: Bound{Min: 0, Max: 300}, Default: 100.0, Step: inputStep},
	{Name: "N", Bound: Bound{Min: 0, Max: 300}, Default: 100.0, Step: inputStep},
}

// FeatureCount is the arity every scaler and model must accept.
const FeatureCount = 4

// FeatureNames returns the column order the artifacts were fitted on.
func FeatureNames() []string {
	names := make([]string, len(featureSpecs))
	for i, spec := range featureSpecs {
		names[i] = spec.Name
	}
	return names
}

// FeatureSpecs returns a copy of the input field descriptions.
func FeatureSpecs() []FeatureSpec {
	return append([]FeatureSpec(nil), featureSpecs...)
}

// DefaultFeatures returns the values the form starts with.
func DefaultFeatures() FeatureVector {
	return FeatureVector{
		Ph: featureSpecs[0].Default,
		K:  featureSpecs[1].Default,
		P:  featureSpecs[2].Default,
		N:  featureSpecs[3].Default,
	}
}

// Values returns the vector in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{v.Ph, v.K, v.P, v.N}
}

// FeatureVectorFromValues builds a vector from values in FeatureNames order.
func FeatureVectorFromValues(values []float64) (FeatureVector, error) {
	if len(values) != FeatureCount {
		return FeatureVector{}, arityError(len(values))
	}
	return FeatureVector{Ph: values[0], K: values[1], P: values[2], N: values[3]}, nil
}

// Clamp forces every field into its bound. NaN falls back to the default.
func (v FeatureVector) Clamp() FeatureVector {
	values := v.Values()
	for i, spec := range featureSpecs {
		values[i] = ClampValue(values[i], spec)
	}
	clamped, _ := FeatureVectorFromValues(values)
	return clamped
}

func (v FeatureVector) hasNaN() bool {
	for _, value := range v.Values() {
		if math.IsNaN(value) {
			return true
		}
	}
	return false
}

// ClampValue clamps a single input into spec's bound.
func ClampValue(value float64, spec FeatureSpec) float64 {
	switch {
	case math.IsNaN(value):
		return spec.Default
	case value < spec.Bound.Min:
		return spec.Bound.Min
	case value > spec.Bound.Max:
		return spec.Bound.Max
	}
	return value
}
