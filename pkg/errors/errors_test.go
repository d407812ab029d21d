package errors

import (
	goErrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesOnKind(t *testing.T) {
	err := NewConcurrentModification("version 3 expected")
	if !goErrors.Is(err, ErrConcurrentModification) {
		t.Fatal("kind match failed")
	}
	if goErrors.Is(err, ErrNotFound) {
		t.Fatal("kinds must not cross-match")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("approve failed: %w", NewAuthorization("missing permission"))
	if !goErrors.Is(err, ErrAuthorization) {
		t.Fatal("wrapped kind match failed")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(NewValidation("bad")) != KindValidation {
		t.Fatal("taxonomy kind lost")
	}
	if KindOf(goErrors.New("plain")) != KindInternal {
		t.Fatal("plain error should map to internal")
	}
}

func TestUnwrap(t *testing.T) {
	cause := goErrors.New("json: cannot unmarshal")
	err := NewMapping("endpoint sms: malformed mapping", cause)
	if !goErrors.Is(err, cause) {
		t.Fatal("cause lost")
	}
}
