package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGrid, "row %d is ragged", 2)

	if err.Code != ErrCodeInvalidGrid {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGrid)
	}
	if err.Message != "row 2 is ragged" {
		t.Errorf("Message = %v, want %v", err.Message, "row 2 is ragged")
	}

	expected := "INVALID_GRID: row 2 is ragged"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidTask, cause, "decode task")

	if err.Code != ErrCodeInvalidTask {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTask)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), "INVALID_TASK: decode task: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNoRule, "x"), ErrCodeNoRule, true},
		{"non-matching code", New(ErrCodeNoRule, "x"), ErrCodeInvalidGrid, false},
		{"outer code wins", Wrap(ErrCodeInvalidTask, New(ErrCodeInvalidGrid, "inner"), "outer"), ErrCodeInvalidTask, true},
		{"fmt wrapped", fmt.Errorf("stage: %w", New(ErrCodeNoRule, "x")), ErrCodeNoRule, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("infer: %w", New(ErrCodeNoRule, "no training pair had markers"))
	if got := GetCode(err); got != ErrCodeNoRule {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNoRule)
	}
	if got := UserMessage(err); got != "no training pair had markers" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidGrid, "x")) {
		t.Error("INVALID_GRID should be a validation error")
	}
	if IsValidation(New(ErrCodeNoRule, "x")) {
		t.Error("NO_RULE should not be a validation error")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("plain errors are not validation errors")
	}
}
