package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"croprec/ml"
	"croprec/monitoring"
)

// Recommender is the inference pipeline as seen by the handlers.
type Recommender interface {
	Recommend(v ml.FeatureVector) (ml.Recommendation, error)
	Classes() []string
}

// Handlers serves the page and the JSON API on top of one Recommender.
type Handlers struct {
	recommender Recommender
	logger      *zap.Logger
	metrics     *monitoring.Metrics
}

func NewHandlers(recommender Recommender, logger *zap.Logger, metrics *monitoring.Metrics) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	return &Handlers{recommender: recommender, logger: logger, metrics: metrics}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /{$}", h.handleRecommendForm)
	mux.Handle("GET /static/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/features", handleFeatures)
	mux.HandleFunc("GET /api/crops", h.handleCrops)
	mux.HandleFunc("POST /api/recommend", h.handleRecommend)
	mux.Handle("GET /metrics", h.metrics.Handler())
}

type recommendResponse struct {
	Crop       string           `json:"crop"`
	Display    string           `json:"display"`
	Class      int              `json:"class"`
	Confidence float64          `json:"confidence"`
	Input      ml.FeatureVector `json:"input"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"features": ml.FeatureSpecs(),
	})
}

func (h *Handlers) handleCrops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crops": h.recommender.Classes(),
	})
}

func (h *Handlers) handleRecommend(w http.ResponseWriter, r *http.Request) {
	input := ml.DefaultFeatures()
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	rec, err := h.recommend(r, input.Clamp())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Crop:       rec.Crop,
		Display:    displayCrop(rec.Crop),
		Class:      rec.Class,
		Confidence: rec.Confidence,
		Input:      rec.Input,
	})
}

// recommend runs the pipeline and records the outcome. Errors are logged here
// so both the page and the API report them the same way.
func (h *Handlers) recommend(r *http.Request, input ml.FeatureVector) (ml.Recommendation, error) {
	start := time.Now()
	rec, err := h.recommender.Recommend(input)
	if err != nil {
		h.metrics.RecordError(errorType(err))
		h.logger.Error("recommendation failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Any("input", input),
			zap.Error(err),
		)
		return ml.Recommendation{}, err
	}
	h.metrics.RecordRecommendation(rec.Crop, time.Since(start))
	h.logger.Info("recommended crop",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Float64("ph", input.Ph),
		zap.Float64("k", input.K),
		zap.Float64("p", input.P),
		zap.Float64("n", input.N),
		zap.String("crop", rec.Crop),
		zap.Float64("confidence", rec.Confidence),
	)
	return rec, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ml.ErrUnknownClass):
		return "unknown_class"
	case errors.Is(err, ml.ErrArity):
		return "arity"
	default:
		return "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
