package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"select 1", "select 1"},
		{"\n  select id\n\tfrom posts\r\n  ", "select id from posts"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := compact(tc.in); got != tc.want {
			t.Fatalf("compact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	long := compact("where title = '" + strings.Repeat("\u00e9", maxSQLLen) + "'")
	if !strings.HasSuffix(long, "...") || len(long) > maxSQLLen+3 {
		t.Fatalf("long statement not truncated: %d bytes", len(long))
	}
	if !json.Valid([]byte(`"` + long + `"`)) {
		t.Fatalf("truncation split a rune")
	}
}

func TestTracer_CountsArgsAndRaisesLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf))

	var line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		SQL       string  `json:"sql"`
		Args      int     `json:"args"`
		Component string  `json:"component"`
	}
	cases := []struct {
		ev    QueryEvent
		level string
	}{
		{QueryEvent{SQL: "select 1", Args: []any{"secret"}, ElapsedUS: 1500}, "info"},
		{QueryEvent{SQL: "select 1", Slow: true}, "warn"},
		{QueryEvent{SQL: "select 1", Err: errors.New("boom")}, "warn"},
	}
	for _, tc := range cases {
		buf.Reset()
		tr.OnQuery(context.Background(), tc.ev)
		if strings.Contains(buf.String(), "secret") {
			t.Fatalf("bound values leaked: %s", buf.String())
		}
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if line.Level != tc.level || line.Args != len(tc.ev.Args) || line.Component != "pg" {
			t.Fatalf("line = %+v, want level %s", line, tc.level)
		}
	}
	if line.SQL != "select 1" {
		t.Fatalf("sql = %q", line.SQL)
	}
}
