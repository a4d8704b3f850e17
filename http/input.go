package http

import (
	"net/url"
	"strconv"
	"strings"

	"croprec/ml"
)

// formField maps a feature name to its form and JSON key.
func formField(name string) string {
	return strings.ToLower(name)
}

// featuresFromForm reads the four inputs, falling back to each field's default
// when missing or unparseable, and clamps every value into its bound.
func featuresFromForm(form url.Values) ml.FeatureVector {
	specs := ml.FeatureSpecs()
	values := make([]float64, len(specs))
	for i, spec := range specs {
		values[i] = spec.Default
		raw := strings.TrimSpace(form.Get(formField(spec.Name)))
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			values[i] = v
		}
	}
	v, _ := ml.FeatureVectorFromValues(values)
	return v.Clamp()
}

// inputRow is one line of the echoed input table.
type inputRow struct {
	Name    string
	Field   string
	Value   string
	Display string
	Min     string
	Max     string
	Step    string
}

func inputRows(v ml.FeatureVector) []inputRow {
	specs := ml.FeatureSpecs()
	values := v.Values()
	rows := make([]inputRow, len(specs))
	for i, spec := range specs {
		rows[i] = inputRow{
			Name:    spec.Name,
			Field:   formField(spec.Name),
			Value:   strconv.FormatFloat(values[i], 'f', 2, 64),
			Display: formatValue(values[i]),
			Min:     strconv.FormatFloat(spec.Bound.Min, 'f', -1, 64),
			Max:     strconv.FormatFloat(spec.Bound.Max, 'f', -1, 64),
			Step:    strconv.FormatFloat(spec.Step, 'f', -1, 64),
		}
	}
	return rows
}
