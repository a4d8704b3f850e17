package ml

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Recommendation is the full outcome of one prediction.
type Recommendation struct {
	Input      FeatureVector `json:"input"`
	Crop       string        `json:"crop"`
	Class      int           `json:"class"`
	Confidence float64       `json:"confidence"`
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithCache memoizes up to size recommendations keyed by the raw input.
// A size of zero or less leaves caching off. Inputs containing NaN are never cached.
func WithCache(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size <= 0 {
			return nil
		}
		cache, err := lru.New[FeatureVector, Recommendation](size)
		if err != nil {
			return fmt.Errorf("create prediction cache: %w", err)
		}
		p.cache = cache
		return nil
	}
}

// Pipeline composes scaler, classifier and label decoder. It holds no mutable
// state besides the optional cache and is safe for concurrent use.
type Pipeline struct {
	scaler Scaler
	model  Classifier
	labels LabelDecoder
	cache  *lru.Cache[FeatureVector, Recommendation]
}

func NewPipeline(artifacts *Artifacts, opts ...PipelineOption) (*Pipeline, error) {
	if artifacts == nil || artifacts.Scaler == nil || artifacts.Model == nil || artifacts.Labels == nil {
		return nil, errors.New("pipeline requires scaler, model and labels")
	}
	p := &Pipeline{
		scaler: artifacts.Scaler,
		model:  artifacts.Model,
		labels: artifacts.Labels,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Predict returns the crop recommended for v.
func (p *Pipeline) Predict(v FeatureVector) (string, error) {
	rec, err := p.Recommend(v)
	if err != nil {
		return "", err
	}
	return rec.Crop, nil
}

// PredictValues is Predict for a raw vector in FeatureNames order.
func (p *Pipeline) PredictValues(values []float64) (string, error) {
	v, err := FeatureVectorFromValues(values)
	if err != nil {
		return "", err
	}
	return p.Predict(v)
}

// Recommend runs v through the scaler, classifier and label decoder.
func (p *Pipeline) Recommend(v FeatureVector) (Recommendation, error) {
	// NaN never equals itself, so such a key could neither hit nor be evicted.
	cached := p.cache != nil && !v.hasNaN()
	if cached {
		if rec, ok := p.cache.Get(v); ok {
			return rec, nil
		}
	}

	scaled, err := p.scaler.Transform(v.Values())
	if err != nil {
		return Recommendation{}, fmt.Errorf("scale features: %w", err)
	}
	class, confidence, err := p.model.Predict(scaled)
	if err != nil {
		return Recommendation{}, fmt.Errorf("predict: %w", err)
	}
	crop, err := p.labels.Decode(class)
	if err != nil {
		return Recommendation{}, err
	}

	rec := Recommendation{Input: v, Crop: crop, Class: class, Confidence: confidence}
	if cached {
		p.cache.Add(v, rec)
	}
	return rec, nil
}

// Classes returns every label the pipeline can produce.
func (p *Pipeline) Classes() []string {
	return p.labels.Classes()
}
