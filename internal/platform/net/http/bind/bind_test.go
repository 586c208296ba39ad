package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "postfilter/internal/platform/errors"
)

type saveInput struct {
	Name    string `json:"name"              validate:"required,max=12"`
	Dialect string `json:"dialect,omitempty" validate:"omitempty,oneof=postgres clickhouse"`
	Limit   int    `json:"limit,omitempty"   validate:"omitempty,min=1,max=1000"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	got, err := ParseJSON[saveInput](post(`{"name":"recent go","limit":50}`))
	if err != nil || got.Name != "recent go" || got.Limit != 50 {
		t.Fatalf("ParseJSON = %+v, %v", got, err)
	}
}

func TestParseJSON_Rejects(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"empty", ``, perr.ErrorCodeJSON, "", "empty body"},
		{"syntax", `{"name":`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown field", `{"name":"a","owner":"b"}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing", `{"name":"a"}{}`, perr.ErrorCodeJSON, "", "trailing"},
		{"required", `{}`, perr.ErrorCodeValidation, "name", "name is a required field"},
		{"max", `{"name":"a","limit":5000}`, perr.ErrorCodeValidation, "limit", "limit must be at most 1000"},
		{"oneof", `{"name":"a","dialect":"mysql"}`, perr.ErrorCodeValidation, "dialect", "dialect must be one of [postgres clickhouse]"},
	}
	for _, tc := range cases {
		_, err := ParseJSON[saveInput](post(tc.body))
		w := perr.WireFrom(err)
		if w.Code != tc.code || w.Field != tc.field || !strings.Contains(w.Message, tc.msg) {
			t.Fatalf("%s: wire = %+v", tc.name, w)
		}
	}
}

func TestParseJSON_BodyLimit(t *testing.T) {
	t.Parallel()
	big := `{"name":"` + strings.Repeat("x", MaxBody) + `"}`
	_, err := ParseJSON[saveInput](post(big))
	if !perr.IsCode(err, perr.ErrorCodeValidation) || !strings.Contains(err.Error(), "exceeds 1048576 bytes") {
		t.Fatalf("err = %v (code %v)", err, perr.CodeOf(err))
	}

	// a document that fits but is cut short is still a JSON error
	_, err = ParseJSON[saveInput](post(`{"name":"x`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("truncated err = %v", err)
	}
}
