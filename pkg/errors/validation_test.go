package errors

import (
	"testing"
)

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		wantErr    bool
	}{
		{"single cell", 1, 1, false},
		{"arc max", 30, 30, false},
		{"limit", MaxGridDim, MaxGridDim, false},
		{"no rows", 0, 3, true},
		{"no cols", 3, 0, true},
		{"too tall", MaxGridDim + 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(tt.rows, tt.cols)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShape(%d, %d) error = %v, wantErr %v", tt.rows, tt.cols, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGrid) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidGrid)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	for _, v := range []int{0, 9, MaxColor} {
		if err := ValidateColor(v); err != nil {
			t.Errorf("ValidateColor(%d) = %v", v, err)
		}
	}
	for _, v := range []int{-1, MaxColor + 1} {
		if err := ValidateColor(v); err == nil {
			t.Errorf("ValidateColor(%d) should fail", v)
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		in      float64
		wantErr bool
	}{
		{0.85, false},
		{1, false},
		{0, true},
		{-0.1, true},
		{1.5, true},
	}
	for _, tt := range tests {
		err := ValidateThreshold(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateThreshold(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "out/predictions.json", false},
		{"absolute file", "/tmp/predictions.json", false},
		{"empty", "", true},
		{"directory", "out/", true},
		{"null byte", "out\x00.json", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
