package features

import (
	"errors"
	"math"
	"testing"
)

func TestDefault(t *testing.T) {
	fv := Default()

	if len(fv) != Count {
		t.Fatalf("Expected %d features, got %d", Count, len(fv))
	}

	expected := []float64{8.3252, 41.0, 6.98, 1.02, 322, 2.55, 37.88, -122.23}
	for i, v := range expected {
		if fv[i] != v {
			t.Errorf("Feature %s: expected %v, got %v", Names[i], v, fv[i])
		}
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	fv := Default()
	fv[0] = 99

	if Default()[0] != 8.3252 {
		t.Error("Mutating a default vector must not change later defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   FeatureVector
		wantErr bool
	}{
		{"default", Default(), false},
		{"zeros", make(FeatureVector, Count), false},
		{"short", FeatureVector{1, 2, 3}, true},
		{"long", make(FeatureVector, Count+1), true},
		{"empty", FeatureVector{}, true},
		{"nan", FeatureVector{1, 2, 3, 4, math.NaN(), 6, 7, 8}, true},
		{"inf", FeatureVector{1, 2, 3, 4, 5, 6, 7, math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestKey(t *testing.T) {
	key, ok := Default().Key()
	if !ok {
		t.Fatal("Expected key for a full vector")
	}
	if key[7] != -122.23 {
		t.Errorf("Expected longitude -122.23 in key, got %v", key[7])
	}

	if _, ok := (FeatureVector{1, 2}).Key(); ok {
		t.Error("Expected no key for a short vector")
	}
}

func TestMap(t *testing.T) {
	m := Default().Map()
	if len(m) != Count {
		t.Fatalf("Expected %d entries, got %d", Count, len(m))
	}
	if m["lat"] != 37.88 {
		t.Errorf("Expected lat 37.88, got %v", m["lat"])
	}
}
