package features

import (
	"errors"
	"fmt"
	"math"
)

// Count is the number of features a housing record carries
const Count = 8

// ErrInvalidInput is returned when a feature vector has the wrong shape or
// contains values that are not finite numbers
var ErrInvalidInput = errors.New("invalid input")

// Names are the positional feature identifiers, also used as form field names
var Names = [Count]string{
	"med_inc",
	"house_age",
	"rooms",
	"bedrooms",
	"population",
	"households",
	"lat",
	"lon",
}

// Labels are the human readable captions for each feature position
var Labels = [Count]string{
	"Median Income",
	"House Age",
	"Rooms",
	"Bedrooms",
	"Population",
	"Households",
	"Latitude",
	"Longitude",
}

// defaultVector is a sample California housing record
var defaultVector = [Count]float64{8.3252, 41.0, 6.98, 1.02, 322, 2.55, 37.88, -122.23}

// FeatureVector is an ordered housing record:
// median income, house age, average rooms, average bedrooms,
// population, households, latitude, longitude
type FeatureVector []float64

// Default returns a fresh copy of the sample record used when a caller
// omits the features
func Default() FeatureVector {
	fv := make(FeatureVector, Count)
	copy(fv, defaultVector[:])
	return fv
}

// Validate checks the vector length and that every value is finite
func (fv FeatureVector) Validate() error {
	if len(fv) != Count {
		return fmt.Errorf("%w: expected %d features, got %d", ErrInvalidInput, Count, len(fv))
	}
	for i, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, Names[i])
		}
	}
	return nil
}

// Key returns the vector as a comparable array. ok is false when the
// vector does not have exactly Count values.
func (fv FeatureVector) Key() (key [Count]float64, ok bool) {
	if len(fv) != Count {
		return key, false
	}
	copy(key[:], fv)
	return key, true
}

// Map returns the vector keyed by feature name
func (fv FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(fv))
	for i, v := range fv {
		if i >= Count {
			break
		}
		m[Names[i]] = v
	}
	return m
}
