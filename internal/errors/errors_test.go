package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E001")
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %s", err.Category)
	}
	if !strings.Contains(err.Error(), "E001") {
		t.Errorf("Error() = %s", err.Error())
	}
	if err.DocURL == "" {
		t.Error("registered code missing DocURL")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %s", err.Message)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := stderrors.New("io problem")
	err := New("E100").Wrap(inner)
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is does not find the wrapped error")
	}
}

func TestIsCode(t *testing.T) {
	err := New("E005")
	if !IsCode(err, "E005") {
		t.Error("IsCode misses a direct match")
	}
	wrapped := New("E100").Wrap(New("E101"))
	if !IsCode(wrapped, "E101") {
		t.Error("IsCode misses a nested code")
	}
	if IsCode(wrapped, "E999") {
		t.Error("IsCode false positive")
	}
	if IsCode(nil, "E001") {
		t.Error("IsCode(nil) must be false")
	}
}

func TestFormat(t *testing.T) {
	out := New("E001").WithDetail("extra detail").WithSuggestion("break the cycle").Format()
	for _, want := range []string{"E001", "extra detail", "hint: break the cycle", "see: "} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("E001"); !ok {
		t.Error("E001 not registered")
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("bogus code registered")
	}
}
