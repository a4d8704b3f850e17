package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrArity is returned when a raw vector does not carry exactly FeatureCount values.
	ErrArity = errors.New("feature arity mismatch")
	// ErrFeatureMismatch is returned when artifacts were fitted on other columns.
	ErrFeatureMismatch = errors.New("artifact feature mismatch")
	// ErrClassMismatch is returned when the model and label table disagree on the class count.
	ErrClassMismatch = errors.New("artifact class mismatch")
	// ErrArtifactDecode is returned when an artifact file cannot be deserialized.
	ErrArtifactDecode = errors.New("artifact decode failed")
	// ErrUnknownClass is returned when a class index is outside the label table.
	ErrUnknownClass = errors.New("class index not in label table")
	// ErrNotTrained is returned by a classifier without nodes.
	ErrNotTrained = errors.New("model not trained")
)

// ArtifactKind names one of the three files loaded at startup.
type ArtifactKind string

const (
	KindScaler ArtifactKind = "scaler"
	KindModel  ArtifactKind = "model"
	KindLabels ArtifactKind = "labels"
)

// ArtifactError reports a failure to load one artifact.
type ArtifactError struct {
	Kind ArtifactKind
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("load %s artifact %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// DecodeError reports a class index the label decoder does not know.
type DecodeError struct {
	Index   int
	Classes int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode class %d: table has %d classes", e.Index, e.Classes)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownClass
}

func arityError(got int) error {
	return fmt.Errorf("%w: expected %d values, got %d", ErrArity, FeatureCount, got)
}
