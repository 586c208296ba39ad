// Command postfilter-lint checks stored or hand-written filter payloads and prints the SQL they render to
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"postfilter/internal/core/filtersql"
	"postfilter/internal/core/filtertree"
	"postfilter/internal/core/version"
	perr "postfilter/internal/platform/errors"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fl := flag.NewFlagSet("postfilter-lint", flag.ContinueOnError)
	fl.SetOutput(stderr)
	var (
		file     = fl.String("f", "-", "payload file, - for stdin")
		dialect  = fl.String("dialect", "all", "postgres, clickhouse or all")
		maxDepth = fl.Int("max-depth", filtertree.DefaultMaxDepth, "group nesting limit including the root")
		quiet    = fl.Bool("q", false, "only set the exit status")
		showVer  = fl.Bool("version", false, "print the build and exit")
	)
	if err := fl.Parse(args); err != nil {
		return exitUsage
	}
	if *showVer {
		_, _ = fmt.Fprintf(stdout, "postfilter-lint %s\n", version.Info())
		return exitOK
	}

	dialects, err := pickDialects(*dialect)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	raw, err := readPayload(*file, stdin)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	out := stdout
	if *quiet {
		out = io.Discard
	}

	codec := filtertree.NewCodec(nil, *maxDepth)
	tree, err := codec.Decode(filtertree.TextPayload(raw))
	if err != nil {
		report(out, "invalid", err)
		return exitInvalid
	}
	_, _ = fmt.Fprintf(out, "decoded: %d conditions, depth %d\n", tree.CountConditions(), tree.Depth())
	reg := codec.Registry()
	tree.EachCondition(func(at filtertree.Path, i int, c filtertree.Condition) bool {
		_, _ = fmt.Fprintf(out, "  %s[%d] %s %s %q: %s\n", at, i, c.Field, c.Operator, c.Values, filtertree.StateOf(reg, c))
		return true
	})

	if err := codec.Submittable(tree); err != nil {
		report(out, "not submittable", err)
		return exitInvalid
	}
	for _, d := range dialects {
		where, args, err := filtersql.New(d, filtersql.WithCodec(codec)).Where(tree)
		if err != nil {
			report(out, d.String(), err)
			return exitInvalid
		}
		_, _ = fmt.Fprintf(out, "%s: WHERE %s\n", d, where)
		for i, a := range args {
			_, _ = fmt.Fprintf(out, "  arg %d: %v\n", i+1, a)
		}
	}
	return exitOK
}

func pickDialects(s string) ([]filtersql.Dialect, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return []filtersql.Dialect{filtersql.Postgres, filtersql.ClickHouse}, nil
	}
	d, err := filtersql.ParseDialect(s)
	if err != nil {
		return nil, err
	}
	return []filtersql.Dialect{d}, nil
}

func readPayload(path string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("empty payload")
	}
	return string(b), nil
}

func report(w io.Writer, label string, err error) {
	if e, ok := perr.As(err); ok && e.Field() != "" {
		_, _ = fmt.Fprintf(w, "%s: %s: %v\n", label, e.Field(), err)
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %v\n", label, err)
}
