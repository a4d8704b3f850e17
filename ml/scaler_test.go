package ml

import (
	"errors"
	"math"
	"testing"
)

func TestStandardScalerTransform(t *testing.T) {
	scaler, err := DecodeScaler([]byte(`{"kind":"standard","feature_names":["Ph","K","P","N"],
		"mean":[6.5,50,50,50],"scale":[1,50,50,0]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled, err := scaler.Transform([]float64{6, 100, 0, 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{-0.5, 1, -1, 10}
	for i := range expected {
		if math.Abs(scaled[i]-expected[i]) > 1e-9 {
			t.Fatalf("column %d: expected %f, got %f", i, expected[i], scaled[i])
		}
	}

	if _, err := scaler.Transform([]float64{1, 2, 3}); !errors.Is(err, ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
}

func TestMinMaxScalerTransform(t *testing.T) {
	scaler, err := DecodeScaler([]byte(`{"kind":"minmax","feature_names":["Ph","K","P","N"],
		"min":[0,0,0,5],"max":[14,300,300,5]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled, err := scaler.Transform([]float64{7, 300, 0, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{0.5, 1, 0, 0}
	for i := range expected {
		if math.Abs(scaled[i]-expected[i]) > 1e-9 {
			t.Fatalf("column %d: expected %f, got %f", i, expected[i], scaled[i])
		}
	}
}

func TestDecodeScalerRejectsInconsistentShapes(t *testing.T) {
	cases := map[string]string{
		"no names":     `{"kind":"standard","mean":[],"scale":[]}`,
		"short mean":   `{"kind":"standard","feature_names":["Ph","K"],"mean":[1],"scale":[1,1]}`,
		"short max":    `{"kind":"minmax","feature_names":["Ph"],"min":[0],"max":[]}`,
		"unknown kind": `{"kind":"robust","feature_names":["Ph"]}`,
		"truncated":    `{"kind":"standard","feature_na`,
	}
	for name, payload := range cases {
		if _, err := DecodeScaler([]byte(payload)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLabelEncoderDecode(t *testing.T) {
	labels, err := DecodeLabelEncoder([]byte(`{"classes":["maize","rice"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crop, err := labels.Decode(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if crop != "rice" {
		t.Fatalf("expected rice, got %s", crop)
	}
	if idx, ok := labels.Encode("maize"); !ok || idx != 0 {
		t.Fatalf("expected maize to encode to 0, got %d/%v", idx, ok)
	}

	_, err = labels.Decode(2)
	if !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Index != 2 {
		t.Fatalf("expected DecodeError for index 2, got %v", err)
	}
	if _, err := labels.Decode(-1); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass for negative index, got %v", err)
	}
}

func TestNewLabelEncoderRequiresBijection(t *testing.T) {
	if _, err := NewLabelEncoder(nil); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := NewLabelEncoder([]string{"rice", "rice"}); err == nil {
		t.Fatal("expected error for duplicate label")
	}
	if _, err := NewLabelEncoder([]string{"rice", ""}); err == nil {
		t.Fatal("expected error for empty label")
	}
}
