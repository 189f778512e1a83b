package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoVersionMatch, "no installed %s satisfies %q", "lib", "^2.0.0")

	if err.Code != ErrCodeNoVersionMatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoVersionMatch)
	}

	want := `NO_VERSION_MATCH: no installed lib satisfies "^2.0.0"`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("file does not exist")
	err := Wrap(ErrCodeManifestUnreadable, cause, "read %s", "lib/package.json")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "MANIFEST_UNREADABLE: read lib/package.json: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNameNotInPool, "x"), ErrCodeNameNotInPool, true},
		{"non-matching code", New(ErrCodeNameNotInPool, "x"), ErrCodeNoVersionMatch, false},
		{"outer code wins", Wrap(ErrCodeManifestUnreadable, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeManifestUnreadable, true},
		{"fmt wrapped", errorsJoin(New(ErrCodeInvalidPath, "x")), ErrCodeInvalidPath, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
		{"empty code", errors.New("plain"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeMalformedRequirement, "x")); got != ErrCodeMalformedRequirement {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeMalformedRequirement)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "workers must be positive")); got != "workers must be positive" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}
