package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errSentinel = errors.New("sentinel")

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:   http.StatusNotFound,
		KindValidation: http.StatusBadRequest,
		KindBadRequest: http.StatusBadRequest,
		KindConflict:   http.StatusConflict,
		KindInternal:   http.StatusInternalServerError,
		KindUnknown:    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %d: expected status %d, got %d", kind, want, got)
		}
	}
}

func TestWrappedSentinelSurvivesFmtWrap(t *testing.T) {
	err := Wrap(KindValidation, "bad number", errSentinel).WithCode("INVALID_NUMBER")
	outer := fmt.Errorf("handler: %w", err)

	if !errors.Is(outer, errSentinel) {
		t.Fatalf("expected errors.Is to reach the sentinel")
	}
	if !Is(outer, KindValidation) {
		t.Fatalf("expected kind to be found through fmt wrapping")
	}
	domainErr, ok := As(outer)
	if !ok || domainErr.Code != "INVALID_NUMBER" {
		t.Fatalf("expected code INVALID_NUMBER, got %+v", domainErr)
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("contact not found").WithOp("contacts.Find")
	if err.Error() != "contacts.Find: contact not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	internal := Wrap(KindInternal, "store failed", errSentinel)
	if internal.Error() != "store failed: sentinel" {
		t.Fatalf("unexpected internal message %q", internal.Error())
	}
	if GetKind(errSentinel) != KindUnknown {
		t.Fatalf("expected unknown kind for plain errors")
	}
}
