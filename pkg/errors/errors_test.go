package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeAccessDenied, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeDecode, status: http.StatusUnprocessableEntity, publicMsg: "malformed record", detailsOK: true},
		{code: CodeProfileStore, status: http.StatusServiceUnavailable, publicMsg: "profile store unavailable", retryable: true},
		{code: CodeOrderWrite, status: http.StatusServiceUnavailable, publicMsg: "order could not be written", retryable: true, detailsOK: true},
		{code: CodeInference, status: http.StatusServiceUnavailable, publicMsg: "assistant unavailable", retryable: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeOrderWrite, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeOrderWrite {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeAccessDenied, "no entry")
	if got := As(err); got == nil || got.Code() != CodeAccessDenied {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCarriesCodeClassificationAndDetails(t *testing.T) {
	err := Wrap(CodeProfileStore, stdErrors.New("connection refused"), "loading profile").
		WithDetails(map[string]string{"store": "profiles"})

	d := Dump(err)
	if d.Code != CodeProfileStore {
		t.Errorf("code = %s, want %s", d.Code, CodeProfileStore)
	}
	if !d.Retryable {
		t.Error("a profile-store failure is retryable")
	}
	if d.Details == nil {
		t.Error("details were dropped from the dump")
	}
	if len(d.Chain) < 2 {
		t.Errorf("chain = %v, want the wrapped cause included", d.Chain)
	}

	denied := Dump(New(CodeAccessDenied, "outside the authorized set"))
	if denied.Retryable {
		t.Error("an authorization rejection is not retryable")
	}
}
