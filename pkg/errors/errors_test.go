package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownTip, "tip %q not in tree", "A")
	if err.Code != ErrCodeUnknownTip {
		t.Errorf("code = %s", err.Code)
	}
	if err.Message != `tip "A" not in tree` {
		t.Errorf("message = %q", err.Message)
	}
	if !strings.HasPrefix(err.Error(), "UNKNOWN_TIP: ") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(ErrCodeFileNotFound, cause, "read %s", "trees.json")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Error() = %q, should include the cause", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeEmptyInput, "nothing to do")
	if !Is(err, ErrCodeEmptyInput) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeEmptyInput) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrCodeEmptyInput) {
		t.Error("Is should not match nil")
	}

	// Codes survive another layer of fmt wrapping.
	outer := fmt.Errorf("context: %w", err)
	if !Is(outer, ErrCodeEmptyInput) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDegenerateTree, "too small")); got != ErrCodeDegenerateTree {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidArgument, "cutoff out of range")
	if got := UserMessage(err); got != "cutoff out of range" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("raw failure")
	if got := UserMessage(plain); got != "raw failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
