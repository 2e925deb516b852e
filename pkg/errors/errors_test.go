package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestUnrecognizedSender(t *testing.T) {
	err := UnrecognizedSender("AX-SPAM")
	if err.Category != CategoryClassify || err.Code != CodeUnrecognizedSender {
		t.Errorf("unexpected category/code: %s/%s", err.Category, err.Code)
	}
	if !err.IsDiscard() {
		t.Error("unrecognized sender must be a discard-class error")
	}
	if err.Context["origin_id"] != "AX-SPAM" {
		t.Errorf("missing origin_id context: %v", err.Context)
	}
}

func TestExtractErrorCodes(t *testing.T) {
	for _, code := range []ErrorCode{CodeNoPatternMatch, CodeInvalidAmount, CodeAmbiguousDirection, CodeInvalidCandidate} {
		err := ExtractError(code, "sms", nil)
		if err.Category != CategoryExtract {
			t.Errorf("code %s: category = %s, want extract", code, err.Category)
		}
		if !err.IsDiscard() {
			t.Errorf("code %s: extraction failures are discards", code)
		}
		if err.Message == "" {
			t.Errorf("code %s: empty message", code)
		}
	}
}

func TestStoreErrorIsNotDiscard(t *testing.T) {
	err := StoreError(CodeInsertFailed, "reconcile", fmt.Errorf("disk full"))
	if err.IsDiscard() {
		t.Error("store errors must propagate, not discard")
	}
	if err.GetExitCode() != 5 {
		t.Errorf("store exit code = %d, want 5", err.GetExitCode())
	}
	if err.Unwrap() == nil {
		t.Error("cause not preserved")
	}
}

func TestWrapAndAs(t *testing.T) {
	base := fmt.Errorf("boom")
	wrapped := Wrap(base, CategoryInternal, CodeUnexpectedError, "processing exploded")

	var target *EngineError
	if !stderrors.As(wrapped, &target) {
		t.Fatal("errors.As failed on EngineError")
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	outer := fmt.Errorf("outer: %w", wrapped)
	got, ok := AsEngineError(outer)
	if !ok || got.Code != CodeUnexpectedError {
		t.Errorf("AsEngineError through fmt wrap = %v, %v", got, ok)
	}
	if !IsDiscard(ExtractError(CodeNoPatternMatch, "sms", nil)) {
		t.Error("IsDiscard helper should see extract errors")
	}
	if IsDiscard(outer) {
		t.Error("internal errors are not discards")
	}
}

func TestErrorStringIncludesSuggestion(t *testing.T) {
	err := New(CategoryConfiguration, CodeInvalidConfig, "bad window").
		WithSuggestion("use a positive duration")
	if !strings.Contains(err.Error(), "use a positive duration") {
		t.Errorf("suggestion missing from Error(): %s", err.Error())
	}
}

func TestWrapIfNeeded(t *testing.T) {
	inner := ExtractError(CodeInvalidAmount, "notification", nil)
	if got := WrapIfNeeded(inner, CategoryInternal, CodeUnexpectedError, "x"); got != inner {
		t.Error("WrapIfNeeded should return the existing EngineError unchanged")
	}
	if got := WrapIfNeeded(nil, CategoryInternal, CodeUnexpectedError, "x"); got != nil {
		t.Error("WrapIfNeeded(nil) should be nil")
	}
	plain := fmt.Errorf("plain")
	got := WrapIfNeeded(plain, CategoryStore, CodeQueryFailed, "query")
	if got.Category != CategoryStore || got.Cause != plain {
		t.Errorf("WrapIfNeeded did not wrap plain error: %+v", got)
	}
}
