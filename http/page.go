package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"croprec/ml"
)

//go:embed templates/index.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

type pageResult struct {
	Crop       string
	Confidence string
}

type pageData struct {
	Rows   []inputRow
	Result *pageResult
	Error  string
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, pageData{Rows: inputRows(ml.DefaultFeatures())})
}

func (h *Handlers) handleRecommendForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, http.StatusBadRequest, pageData{
			Rows:  inputRows(ml.DefaultFeatures()),
			Error: "invalid form: " + err.Error(),
		})
		return
	}

	input := featuresFromForm(r.PostForm)
	data := pageData{Rows: inputRows(input)}
	rec, err := h.recommend(r, input)
	if err != nil {
		data.Error = "Recommendation failed: " + err.Error()
		h.renderPage(w, http.StatusInternalServerError, data)
		return
	}
	data.Result = &pageResult{
		Crop:       displayCrop(rec.Crop),
		Confidence: formatPercent(rec.Confidence),
	}
	h.renderPage(w, http.StatusOK, data)
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
