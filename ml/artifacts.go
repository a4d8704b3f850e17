package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ArtifactPaths locates the three fitted objects on disk.
type ArtifactPaths struct {
	Scaler string `yaml:"scaler"`
	Model  string `yaml:"model"`
	Labels string `yaml:"labels"`
}

// Artifacts is the immutable triple every prediction runs through.
type Artifacts struct {
	Scaler Scaler
	Model  Classifier
	Labels LabelDecoder

	// Placeholders lists the artifacts whose file is marked "placeholder": true.
	// Such files are samples, not the output of a fitted model.
	Placeholders []ArtifactKind
}

// IsPlaceholder reports whether any artifact is a placeholder.
func (a *Artifacts) IsPlaceholder() bool {
	return len(a.Placeholders) > 0
}

// Validate checks that the three artifacts were fitted together.
func (a *Artifacts) Validate() error {
	names := a.Scaler.FeatureNames()
	expected := FeatureNames()
	if len(names) != len(expected) {
		return fmt.Errorf("%w: scaler has %d columns, want %d", ErrFeatureMismatch, len(names), len(expected))
	}
	for i := range expected {
		if names[i] != expected[i] {
			return fmt.Errorf("%w: scaler column %d is %q, want %q", ErrFeatureMismatch, i, names[i], expected[i])
		}
	}
	if a.Model.NumFeatures() != FeatureCount {
		return fmt.Errorf("%w: model expects %d features, want %d", ErrFeatureMismatch, a.Model.NumFeatures(), FeatureCount)
	}
	if classes := len(a.Labels.Classes()); a.Model.NumClasses() != classes {
		return fmt.Errorf("%w: model has %d classes, label table has %d", ErrClassMismatch, a.Model.NumClasses(), classes)
	}
	return nil
}

// StoreOption configures an ArtifactStore.
type StoreOption func(*ArtifactStore)

// WithReadFile replaces os.ReadFile.
func WithReadFile(readFile func(string) ([]byte, error)) StoreOption {
	return func(s *ArtifactStore) {
		s.readFile = readFile
	}
}

// ArtifactStore loads the artifacts on first use and hands out the same
// triple afterwards. A failed load is remembered too.
type ArtifactStore struct {
	paths    ArtifactPaths
	readFile func(string) ([]byte, error)

	once      sync.Once
	artifacts *Artifacts
	err       error
}

func NewArtifactStore(paths ArtifactPaths, opts ...StoreOption) *ArtifactStore {
	s := &ArtifactStore{
		paths:    paths,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the cached artifacts, reading them from disk on the first call.
func (s *ArtifactStore) Load() (*Artifacts, error) {
	s.once.Do(func() {
		s.artifacts, s.err = s.load()
	})
	return s.artifacts, s.err
}

// Paths returns the configured locations.
func (s *ArtifactStore) Paths() ArtifactPaths {
	return s.paths
}

func (s *ArtifactStore) load() (*Artifacts, error) {
	var placeholders []ArtifactKind
	scaler, err := loadArtifact(s, KindScaler, s.paths.Scaler, DecodeScaler, &placeholders)
	if err != nil {
		return nil, err
	}
	model, err := loadArtifact(s, KindModel, s.paths.Model, DecodeModel, &placeholders)
	if err != nil {
		return nil, err
	}
	labels, err := loadArtifact(s, KindLabels, s.paths.Labels, DecodeLabelEncoder, &placeholders)
	if err != nil {
		return nil, err
	}

	artifacts := &Artifacts{Scaler: scaler, Model: model, Labels: labels, Placeholders: placeholders}
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// artifactHeader holds the fields shared by every artifact file.
type artifactHeader struct {
	Placeholder bool `json:"placeholder"`
}

func loadArtifact[T any](s *ArtifactStore, kind ArtifactKind, path string, decode func([]byte) (T, error), placeholders *[]ArtifactKind) (T, error) {
	var zero T
	if path == "" {
		return zero, &ArtifactError{Kind: kind, Path: path, Err: fmt.Errorf("path is empty")}
	}
	payload, err := s.readFile(path)
	if err != nil {
		return zero, &ArtifactError{Kind: kind, Path: path, Err: err}
	}
	value, err := decode(payload)
	if err != nil {
		return zero, &ArtifactError{Kind: kind, Path: path, Err: fmt.Errorf("%w: %v", ErrArtifactDecode, err)}
	}
	var header artifactHeader
	if json.Unmarshal(payload, &header) == nil && header.Placeholder {
		*placeholders = append(*placeholders, kind)
	}
	return value, nil
}
