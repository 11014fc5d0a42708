package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidSlideType, "unknown slide type %q", "quote"),
			want: `INVALID_SLIDE_TYPE: unknown slide type "quote"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeExportFailed, errors.New("disk full"), "save %s", "deck.pptx"),
			want: "EXPORT_FAILED: save deck.pptx: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("zip: write failed")
	err := Wrap(ErrCodeExportFailed, cause, "serialize slide %d", 4)

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if err.Message != "serialize slide 4" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIs(t *testing.T) {
	layout := New(ErrCodeInvalidLayout, "no recipe")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", layout, ErrCodeInvalidLayout, true},
		{"other code", layout, ErrCodeInvalidSlideType, false},
		{"outer code wins", Wrap(ErrCodeExportFailed, layout, "slide 2"), ErrCodeExportFailed, true},
		{"inner code hidden", Wrap(ErrCodeExportFailed, layout, "slide 2"), ErrCodeInvalidLayout, false},
		{"through fmt wrapping", fmt.Errorf("render: %w", layout), ErrCodeInvalidLayout, true},
		{"plain error", errors.New("boom"), ErrCodeInvalidLayout, false},
		{"nil", nil, ErrCodeInvalidLayout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeQuotaExceeded, "quota"), ErrCodeQuotaExceeded},
		{"wrapped by fmt", fmt.Errorf("generate: %w", New(ErrCodeTimeout, "slow")), ErrCodeTimeout},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeSessionNotFound, "Session not found"), "Session not found"},
		{"coded with cause", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "deck %s", "a.json"), "deck a.json"},
		{"behind fmt wrapping", fmt.Errorf("load: %w", New(ErrCodeInvalidPresentation, "no slides")), "no slides"},
		{"plain", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeFamilies(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantInvalid bool
		wantMissing bool
	}{
		{"slide type", New(ErrCodeInvalidSlideType, "bad"), true, false},
		{"layout", New(ErrCodeInvalidLayout, "bad"), true, false},
		{"session", New(ErrCodeSessionNotFound, "gone"), false, true},
		{"plain not found", New(ErrCodeNotFound, "gone"), false, true},
		{"export", New(ErrCodeExportFailed, "boom"), false, false},
		{"foreign", errors.New("plain"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.wantInvalid {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.wantInvalid)
			}
			if got := IsNotFound(tt.err); got != tt.wantMissing {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.wantMissing)
			}
		})
	}
}
