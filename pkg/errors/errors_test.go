package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/textilize/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "malformed_rule",
			code:    errors.ErrMalformedRule,
			message: "unknown command",
			wantStr: "[MALFORMED_RULE] unknown command",
		},
		{
			name:    "missing_root",
			code:    errors.ErrMissingConfigRoot,
			message: "no configuration root",
			wantStr: "[MISSING_CONFIG_ROOT] no configuration root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidInput, "unknown stage %q", "middle")
	if want := `unknown stage "middle"`; err.Message != want {
		t.Errorf("Newf() message = %q, want %q", err.Message, want)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("permission denied")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrIO, "cannot open source")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}
		wantStr := "[IO_FAILURE] cannot open source: permission denied"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrIO, "cannot open source"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrIO, "cannot open %s", "x"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrMalformedRule, "bad rule").
		WithDetail(errors.DetailLine, 3).
		WithDetails(map[string]interface{}{
			errors.DetailPath: "/docs/.textilize-pre.rules",
			errors.DetailText: `REPLACE "x" "y"`,
		})

	details := errors.GetErrorDetails(err)
	if details[errors.DetailLine] != 3 {
		t.Errorf("line detail = %v, want 3", details[errors.DetailLine])
	}
	if details[errors.DetailPath] != "/docs/.textilize-pre.rules" {
		t.Errorf("path detail = %v", details[errors.DetailPath])
	}
	if got := errors.GetErrorDetails(stderrors.New("plain")); got != nil {
		t.Errorf("GetErrorDetails() on plain error = %v, want nil", got)
	}

	var zero errors.TextilizeError
	zero.WithDetail("k", "v")
	if zero.Details["k"] != "v" {
		t.Error("WithDetail() should initialize nil details")
	}
}

func TestIsErrorCode(t *testing.T) {
	malformed := errors.New(errors.ErrMalformedRule, "bad rule")
	wrapped := errors.Wrap(malformed, errors.ErrIO, "unit failed")

	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"direct_match", malformed, errors.ErrMalformedRule, true},
		{"direct_mismatch", malformed, errors.ErrIO, false},
		{"inner_match", wrapped, errors.ErrMalformedRule, true},
		{"fmt_wrapped", fmt.Errorf("ctx: %w", malformed), errors.ErrMalformedRule, true},
		{"plain_error", stderrors.New("plain"), errors.ErrMalformedRule, false},
		{"nil_error", nil, errors.ErrMalformedRule, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"structured", errors.New(errors.ErrConversion, "x"), errors.ErrConversion},
		{"plain", stderrors.New("plain"), errors.ErrUnknown},
		{"nil", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRootCode(t *testing.T) {
	inner := errors.New(errors.ErrMissingConfigRoot, "no root")
	outer := errors.Wrap(errors.Wrap(inner, errors.ErrInternal, "resolve"), errors.ErrIO, "unit")

	if got := errors.RootCode(outer); got != errors.ErrMissingConfigRoot {
		t.Errorf("RootCode() = %v, want %v", got, errors.ErrMissingConfigRoot)
	}
	if got := errors.RootCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("RootCode() plain = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestErrorsIs(t *testing.T) {
	rootCause := stderrors.New("disk full")
	ioErr := errors.Wrap(rootCause, errors.ErrIO, "cannot write sink")

	if !stderrors.Is(ioErr, rootCause) {
		t.Error("errors.Is should find root cause")
	}
	if !stderrors.Is(ioErr, errors.New(errors.ErrIO, "")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(ioErr, errors.New(errors.ErrConversion, "")) {
		t.Error("errors.Is should not match a different code")
	}
}
