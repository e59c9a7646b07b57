package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidOSIS, "invalid reference: %s", "bogus")

	if err.Code != ErrCodeInvalidOSIS {
		t.Errorf("code = %q, want INVALID_OSIS", err.Code)
	}
	if !strings.Contains(err.Error(), "INVALID_OSIS") {
		t.Errorf("Error() = %q, should contain the code", err.Error())
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("Error() = %q, should contain the formatted message", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeFetchFailed, cause, "fetch payload for %s", "John.3.16")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, should contain the cause", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNoGraphData, "no graph data")

	if !Is(err, ErrCodeNoGraphData) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeFetchFailed) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNoGraphData) {
		t.Error("Is should not match a plain error")
	}

	// Codes survive another layer of wrapping.
	wrapped := Wrap(ErrCodeInternal, err, "pipeline failed")
	if !Is(wrapped, ErrCodeInternal) {
		t.Error("Is should match the outermost code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "deadline")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %q, want TIMEOUT", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "width must be positive")
	if got := UserMessage(err); got != "width must be positive" {
		t.Errorf("UserMessage = %q, want message without code prefix", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestValidateOSIS(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		ok   bool
	}{
		{"simple verse", "John.3.16", true},
		{"book chapter", "Gen.1", true},
		{"verse range", "Rom.8.28-Rom.8.30", true},
		{"empty", "", false},
		{"space", "John 3.16", false},
		{"tab", "John\t3", false},
		{"parent dir", "../etc/passwd", false},
		{"double slash", "a//b", false},
		{"slash", "John/3", false},
		{"backslash", "John\\3", false},
		{"null byte", "John\x003", false},
		{"too long", strings.Repeat("a", 129), false},
		{"max length", strings.Repeat("a", 128), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOSIS(tt.ref)
			if tt.ok && err != nil {
				t.Errorf("ValidateOSIS(%q) = %v, want nil", tt.ref, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("ValidateOSIS(%q) = nil, want error", tt.ref)
				}
				if !Is(err, ErrCodeInvalidOSIS) {
					t.Errorf("ValidateOSIS(%q) code = %v, want INVALID_OSIS", tt.ref, GetCode(err))
				}
			}
		})
	}
}
