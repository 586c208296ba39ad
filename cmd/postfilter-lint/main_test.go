package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lint(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_ValidTreePrintsBothDialects(t *testing.T) {
	t.Parallel()
	payload := `{"operator":"AND","conditions":[{"field":"tags","operator":"contains","values":["go"]}],"groups":[]}`
	code, out, _ := lint(t, payload)
	if code != exitOK {
		t.Fatalf("exit = %d, out = %s", code, out)
	}
	for _, want := range []string{"decoded: 1 conditions, depth 1", "postgres: WHERE $1 = ANY(tags)", "clickhouse: WHERE has(tags, ?)", "arg 1: go"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ReportsField(t *testing.T) {
	t.Parallel()
	code, out, _ := lint(t, `{"operator":"AND","conditions":[{"field":"title","operator":"","values":[""]}]}`, "-dialect", "pg")
	if code != exitInvalid || !strings.Contains(out, "not submittable: conditions[0].operator") {
		t.Fatalf("exit = %d, out = %s", code, out)
	}
	if !strings.Contains(out, "field_selected") {
		t.Fatalf("condition states should be listed:\n%s", out)
	}

	code, out, _ = lint(t, `{"operator":"AND","groups":[]}`)
	if code != exitInvalid || !strings.HasPrefix(out, "invalid: conditions") {
		t.Fatalf("exit = %d, out = %s", code, out)
	}
}

func TestRun_DepthFlag(t *testing.T) {
	t.Parallel()
	nested := `{"operator":"AND","conditions":[],"groups":[{"operator":"OR","conditions":[]}]}`
	if code, _, _ := lint(t, nested, "-max-depth", "1", "-q"); code != exitInvalid {
		t.Fatalf("exit = %d, want invalid", code)
	}
	if code, _, _ := lint(t, nested, "-max-depth", "2", "-q"); code != exitOK {
		t.Fatalf("exit = %d, want ok", code)
	}
}

func TestRun_ReadsFile(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "preset.json")
	// stored double encoded
	if err := os.WriteFile(p, []byte(`"{\"operator\":\"OR\",\"conditions\":[]}"`), 0o600); err != nil {
		t.Fatal(err)
	}
	code, out, _ := lint(t, "", "-f", p, "-dialect", "clickhouse")
	if code != exitOK || !strings.Contains(out, "clickhouse: WHERE TRUE") {
		t.Fatalf("exit = %d, out = %s", code, out)
	}
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()
	if code, _, _ := lint(t, "{}", "-dialect", "oracle"); code != exitUsage {
		t.Fatalf("bad dialect exit = %d", code)
	}
	if code, _, _ := lint(t, "   "); code != exitUsage {
		t.Fatalf("empty payload exit = %d", code)
	}
	if code, _, _ := lint(t, "{}", "-nope"); code != exitUsage {
		t.Fatalf("unknown flag exit = %d", code)
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()
	code, out, _ := lint(t, "", "-version")
	if code != exitOK || !strings.HasPrefix(out, "postfilter-lint ") {
		t.Fatalf("exit = %d, out = %q", code, out)
	}
}
