package predict

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{1234567.8, "$1,234,567.80"},
		{0, "$0.00"},
		{4.5, "$4.50"},
		{1000, "$1,000.00"},
		{452600, "$452,600.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatPrice(tt.input); got != tt.expected {
				t.Errorf("FormatPrice(%v) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatPrediction(t *testing.T) {
	got := FormatPrediction(1234567.8)
	if got != "Predicted House Price: $1,234,567.80" {
		t.Errorf("Unexpected output %q", got)
	}
}
