package ml

import (
	"encoding/json"
	"fmt"
)

const (
	scalerStandard = "standard"
	scalerMinMax   = "minmax"
)

// StandardScaler applies (x - mean) / scale per column.
type StandardScaler struct {
	Names []string
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler fitted on %d columns, got %d", ErrArity, len(s.Mean), len(features))
	}
	result := make([]float64, len(features))
	for i, value := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		result[i] = (value - s.Mean[i]) / scale
	}
	return result, nil
}

func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.Names...)
}

// MinMaxScaler maps each column from [min, max] onto [0, 1].
type MinMaxScaler struct {
	Names []string
	Min   []float64
	Max   []float64
}

func (s *MinMaxScaler) Transform(features []float64) ([]float64, error) {
	return NormalizeVector(features, s.Min, s.Max)
}

func (s *MinMaxScaler) FeatureNames() []string {
	return append([]string(nil), s.Names...)
}

func NormalizeFeature(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (value - min) / (max - min)
}

func NormalizeVector(values []float64, mins []float64, maxs []float64) ([]float64, error) {
	if len(values) != len(mins) || len(values) != len(maxs) {
		return nil, fmt.Errorf("%w: values/mins/maxs length mismatch", ErrArity)
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = NormalizeFeature(values[i], mins[i], maxs[i])
	}
	return result, nil
}

type scalerFile struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
	Min          []float64 `json:"min,omitempty"`
	Max          []float64 `json:"max,omitempty"`
}

// DecodeScaler parses a scaler artifact.
func DecodeScaler(payload []byte) (Scaler, error) {
	var file scalerFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, err
	}
	width := len(file.FeatureNames)
	if width == 0 {
		return nil, fmt.Errorf("scaler has no feature names")
	}

	switch file.Kind {
	case scalerStandard, "":
		if len(file.Mean) != width || len(file.Scale) != width {
			return nil, fmt.Errorf("standard scaler: %d names, %d means, %d scales", width, len(file.Mean), len(file.Scale))
		}
		return &StandardScaler{Names: file.FeatureNames, Mean: file.Mean, Scale: file.Scale}, nil
	case scalerMinMax:
		if len(file.Min) != width || len(file.Max) != width {
			return nil, fmt.Errorf("minmax scaler: %d names, %d mins, %d maxs", width, len(file.Min), len(file.Max))
		}
		return &MinMaxScaler{Names: file.FeatureNames, Min: file.Min, Max: file.Max}, nil
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", file.Kind)
	}
}
