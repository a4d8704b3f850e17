package ml

import (
	"encoding/json"
	"fmt"
)

// LabelEncoder holds the class names in index order.
type LabelEncoder struct {
	classes []string
}

// NewLabelEncoder validates that classes form a bijection with [0, len).
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label table is empty")
	}
	seen := make(map[string]struct{}, len(classes))
	for i, class := range classes {
		if class == "" {
			return nil, fmt.Errorf("label %d is empty", i)
		}
		if _, ok := seen[class]; ok {
			return nil, fmt.Errorf("duplicate label %q", class)
		}
		seen[class] = struct{}{}
	}
	return &LabelEncoder{classes: append([]string(nil), classes...)}, nil
}

func (e *LabelEncoder) Decode(index int) (string, error) {
	if index < 0 || index >= len(e.classes) {
		return "", &DecodeError{Index: index, Classes: len(e.classes)}
	}
	return e.classes[index], nil
}

// Encode is the inverse of Decode.
func (e *LabelEncoder) Encode(label string) (int, bool) {
	for i, class := range e.classes {
		if class == label {
			return i, true
		}
	}
	return 0, false
}

func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

type labelFile struct {
	Classes []string `json:"classes"`
}

// DecodeLabelEncoder parses a label table artifact.
func DecodeLabelEncoder(payload []byte) (*LabelEncoder, error) {
	var file labelFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, err
	}
	return NewLabelEncoder(file.Classes)
}
