package ml

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func testdataPaths() ArtifactPaths {
	return ArtifactPaths{
		Scaler: filepath.Join("testdata", "scaler.json"),
		Model:  filepath.Join("testdata", "model.json"),
		Labels: filepath.Join("testdata", "labels.json"),
	}
}

type readSpy struct {
	reads atomic.Int64
	patch map[string]func([]byte) []byte
}

func (s *readSpy) ReadFile(path string) ([]byte, error) {
	s.reads.Add(1)
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if fn, ok := s.patch[path]; ok {
		payload = fn(payload)
	}
	return payload, nil
}

func TestArtifactStoreLoad(t *testing.T) {
	store := NewArtifactStore(testdataPaths())
	artifacts, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := artifacts.Model.(*RandomForest); !ok {
		t.Fatalf("expected *RandomForest, got %T", artifacts.Model)
	}
	if got := len(artifacts.Labels.Classes()); got != 4 {
		t.Fatalf("expected 4 classes, got %d", got)
	}
}

func TestArtifactStoreLoadIsMemoized(t *testing.T) {
	spy := &readSpy{}
	store := NewArtifactStore(testdataPaths(), WithReadFile(spy.ReadFile))

	first, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := store.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatal("expected the cached artifacts to be returned")
		}
	}
	if got := spy.reads.Load(); got != 3 {
		t.Fatalf("expected 3 file reads, got %d", got)
	}
}

func TestArtifactStoreConcurrentFirstLoad(t *testing.T) {
	spy := &readSpy{}
	store := NewArtifactStore(testdataPaths(), WithReadFile(spy.ReadFile))

	var wg sync.WaitGroup
	results := make([]*Artifacts, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.Load()
		}(i)
	}
	wg.Wait()

	for _, artifacts := range results {
		if artifacts == nil || artifacts != results[0] {
			t.Fatal("expected every caller to share one artifact set")
		}
	}
	if got := spy.reads.Load(); got != 3 {
		t.Fatalf("expected 3 file reads, got %d", got)
	}
}

func TestArtifactStoreTruncatedModel(t *testing.T) {
	paths := testdataPaths()
	spy := &readSpy{patch: map[string]func([]byte) []byte{
		paths.Model: func(b []byte) []byte { return b[:len(b)/2] },
	}}
	store := NewArtifactStore(paths, WithReadFile(spy.ReadFile))

	artifacts, err := store.Load()
	if artifacts != nil {
		t.Fatal("expected no artifacts")
	}
	if !errors.Is(err, ErrArtifactDecode) {
		t.Fatalf("expected ErrArtifactDecode, got %v", err)
	}
	var artifactErr *ArtifactError
	if !errors.As(err, &artifactErr) || artifactErr.Kind != KindModel {
		t.Fatalf("expected model ArtifactError, got %v", err)
	}

	// the failure is remembered, nothing is re-read
	reads := spy.reads.Load()
	if _, err := store.Load(); err == nil {
		t.Fatal("expected the cached error")
	}
	if spy.reads.Load() != reads {
		t.Fatal("expected no further reads after a failed load")
	}
}

func TestArtifactStoreMissingFile(t *testing.T) {
	paths := testdataPaths()
	paths.Labels = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewArtifactStore(paths).Load()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	var artifactErr *ArtifactError
	if !errors.As(err, &artifactErr) || artifactErr.Kind != KindLabels {
		t.Fatalf("expected labels ArtifactError, got %v", err)
	}
}

func TestArtifactStoreEmptyPath(t *testing.T) {
	paths := testdataPaths()
	paths.Scaler = ""
	if _, err := NewArtifactStore(paths).Load(); err == nil {
		t.Fatal("expected error for empty scaler path")
	}
}

func TestArtifactStoreVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	labels := filepath.Join(dir, "labels.json")
	if err := os.WriteFile(labels, []byte(`{"classes":["maize","rice"]}`), 0o600); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	paths := testdataPaths()
	paths.Labels = labels

	_, err := NewArtifactStore(paths).Load()
	if !errors.Is(err, ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch, got %v", err)
	}
	if errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("class count mismatch reported as feature mismatch: %v", err)
	}
}

func TestArtifactStoreScalerColumnOrder(t *testing.T) {
	dir := t.TempDir()
	scaler := filepath.Join(dir, "scaler.json")
	payload := `{"kind":"standard","feature_names":["N","P","K","Ph"],"mean":[0,0,0,0],"scale":[1,1,1,1]}`
	if err := os.WriteFile(scaler, []byte(payload), 0o600); err != nil {
		t.Fatalf("write scaler: %v", err)
	}
	paths := testdataPaths()
	paths.Scaler = scaler

	_, err := NewArtifactStore(paths).Load()
	if !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected ErrFeatureMismatch, got %v", err)
	}
}

func TestArtifactStorePlaceholders(t *testing.T) {
	artifacts, err := NewArtifactStore(testdataPaths()).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifacts.IsPlaceholder() {
		t.Fatalf("fixtures are not marked, got %v", artifacts.Placeholders)
	}

	dir := filepath.Join("..", "models", "placeholder")
	shipped := ArtifactPaths{
		Scaler: filepath.Join(dir, "scaler.json"),
		Model:  filepath.Join(dir, "model.json"),
		Labels: filepath.Join(dir, "labels.json"),
	}
	artifacts, err = NewArtifactStore(shipped).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts.Placeholders) != 3 {
		t.Fatalf("expected every shipped artifact to be marked, got %v", artifacts.Placeholders)
	}
}

func TestArtifactStorePlaceholderModelOnly(t *testing.T) {
	paths := testdataPaths()
	spy := &readSpy{patch: map[string]func([]byte) []byte{
		paths.Model: func(payload []byte) []byte {
			return append([]byte(`{"placeholder":true,`), payload[1:]...)
		},
	}}
	artifacts, err := NewArtifactStore(paths, WithReadFile(spy.ReadFile)).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts.Placeholders) != 1 || artifacts.Placeholders[0] != KindModel {
		t.Fatalf("expected only the model marked, got %v", artifacts.Placeholders)
	}
}
