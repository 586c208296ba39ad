package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want int
	}{
		{NotFoundf("preset %d", 3), http.StatusNotFound},
		{InvalidArgf("dialect"), http.StatusUnprocessableEntity},
		{DuplicateKeyf("name"), http.StatusConflict},
		{New(ErrorCodeValidation, "values"), http.StatusBadRequest},
		{JSONErrf("eof"), http.StatusBadRequest},
		{Unauthorizedf("owner"), http.StatusUnauthorized},
		{New(ErrorCodeUnavailable, "down"), http.StatusServiceUnavailable},
		{Wrap(stderrs.New("x"), ErrorCodeDB, "db"), http.StatusInternalServerError},
		{stderrs.New("foreign"), http.StatusInternalServerError},
		{New(9999, "future code"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// remote wraps perr values the way the preset gateway does
type remote struct{ err error }

func (r *remote) Error() string { return "presets.save: " + r.err.Error() }
func (r *remote) Unwrap() error { return r.err }

func TestCodeSurvivesForeignWrappers(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("handler: %w", &remote{err: DuplicateKeyf("preset exists")})
	if !IsCode(err, ErrorCodeDuplicateKey) || HTTPStatus(err) != http.StatusConflict {
		t.Fatalf("code lost through wrappers: %v", CodeOf(err))
	}
	if w := WireFrom(err); w.Code != ErrorCodeDuplicateKey || w.Message != "preset exists" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(stderrs.New("plain")); w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
}

func TestWithFieldCopiesOnWrite(t *testing.T) {
	t.Parallel()
	base := New(ErrorCodeValidation, "operator not allowed")
	scoped := WithField(base, "groups[1].conditions[0].operator")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("base mutated: %q", e.Field())
	}
	e, ok := As(scoped)
	if !ok || e.Field() != "groups[1].conditions[0].operator" || e.ToWire().Field != e.Field() {
		t.Fatalf("scoped = %+v", e)
	}

	plain := stderrs.New("x")
	if WithField(plain, "f") != plain {
		t.Fatalf("foreign errors pass through unchanged")
	}
}

func TestWrapAndRoot(t *testing.T) {
	t.Parallel()
	cause := stderrs.New("connection reset")
	err := Wrap(fmt.Errorf("dial: %w", cause), ErrorCodeUnavailable, "preset store unavailable")

	if err.Error() != "preset store unavailable: dial: connection reset" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if Root(err) != cause || !stderrs.Is(err, cause) {
		t.Fatalf("Root = %v", Root(err))
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" || Root(nil) != nil {
		t.Fatalf("nil handling")
	}
}
