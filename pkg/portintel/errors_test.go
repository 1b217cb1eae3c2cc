package portintel

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := NewError(ErrCodeNotFound, "portfolio gone")
	if plain.Error() != "NOT_FOUND: portfolio gone" {
		t.Errorf("plain error: got %q", plain.Error())
	}

	wrapped := WrapError(ErrCodeStorage, "write failed", errors.New("disk full"))
	if wrapped.Error() != "STORAGE_ERROR: write failed: disk full" {
		t.Errorf("wrapped error: got %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := WrapError(ErrCodeCalculation, "xirr solve failed", errors.New("no convergence"))
	if !IsErrorCode(err, ErrCodeCalculation) {
		t.Error("expected CALCULATION_ERROR match")
	}
	if IsErrorCode(err, ErrCodeStorage) {
		t.Error("unexpected STORAGE_ERROR match")
	}
	if IsErrorCode(errors.New("bare"), ErrCodeInternal) {
		t.Error("bare error has no code")
	}
	// Works through further wrapping.
	if !IsErrorCode(fmt.Errorf("context: %w", err), ErrCodeCalculation) {
		t.Error("expected match through wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", NewError(ErrCodeInvalidInput, "bad"), ErrCodeInvalidInput},
		{"oversold", &OversoldError{Symbol: "AAA"}, ErrCodeOversold},
		{"wrapped oversold", fmt.Errorf("analyze: %w", &OversoldError{Symbol: "AAA"}), ErrCodeOversold},
		{"price sentinel", fmt.Errorf("%w: AAA", ErrPriceUnavailable), ErrCodePriceUnavailable},
		{"unclassified", errors.New("boom"), ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestOversoldErrorMessage(t *testing.T) {
	err := &OversoldError{Symbol: "TCS.NS"}
	if err.Error() != "sold more shares than bought for TCS.NS" {
		t.Errorf("got %q", err.Error())
	}
}
