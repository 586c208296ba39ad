// Package filtersql renders a submittable filter tree as a parameterized WHERE clause
// for the posts table in either Postgres or ClickHouse
package filtersql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/core/normalize"
	perr "postfilter/internal/platform/errors"
)

// Dialect selects placeholder style and function names
type Dialect int

// Supported dialects
const (
	Postgres Dialect = iota
	ClickHouse
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case ClickHouse:
		return "clickhouse"
	default:
		return "dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDialect maps a config value to a Dialect; empty means Postgres
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "pg", "pgsql":
		return Postgres, nil
	case "clickhouse", "ch":
		return ClickHouse, nil
	default:
		return Postgres, perr.InvalidArgf("unknown query dialect %q", s)
	}
}

// Column describes where a field lives; Array columns hold a list of values
type Column struct {
	Name  string
	Array bool
}

// DefaultColumns maps the default registry onto the posts table
func DefaultColumns() map[string]Column {
	return map[string]Column{
		"createdAt": {Name: "created_at"},
		"title":     {Name: "title"},
		"tags":      {Name: "tags", Array: true},
	}
}

// Translator turns trees into WHERE clauses
type Translator struct {
	dialect Dialect
	columns map[string]Column
	codec   *filtertree.Codec
}

// Option configures a Translator
type Option func(*Translator)

// WithColumns overrides the field to column mapping
func WithColumns(cols map[string]Column) Option {
	return func(t *Translator) {
		if len(cols) > 0 {
			t.columns = cols
		}
	}
}

// WithCodec validates against a specific codec instead of the default one
func WithCodec(c *filtertree.Codec) Option {
	return func(t *Translator) {
		if c != nil {
			t.codec = c
		}
	}
}

// New builds a Translator for d
func New(d Dialect, opts ...Option) *Translator {
	t := &Translator{dialect: d, columns: DefaultColumns(), codec: filtertree.NewCodec(nil, 0)}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Dialect reports the dialect the translator renders
func (t *Translator) Dialect() Dialect { return t.dialect }

// Where renders g; the empty tree renders as TRUE and matches every row
// g must be submittable, the same check Encode applies
func (t *Translator) Where(g filtertree.Group) (string, []any, error) {
	if err := t.codec.Submittable(g); err != nil {
		return "", nil, err
	}
	b := &builder{t: t}
	clause, err := b.group(g, nil)
	if err != nil {
		return "", nil, err
	}
	return clause, b.args, nil
}

type builder struct {
	t    *Translator
	args []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	if b.t.dialect == ClickHouse {
		return "?"
	}
	return "$" + strconv.Itoa(len(b.args))
}

// group renders own conditions first, then subgroups, joined by the group operator
func (b *builder) group(g filtertree.Group, at filtertree.Path) (string, error) {
	if g.IsEmpty() {
		return "TRUE", nil
	}
	parts := make([]string, 0, len(g.Conditions)+len(g.Groups))
	for i, c := range g.Conditions {
		s, err := b.condition(c, at, i)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	for i, sg := range g.Groups {
		s, err := b.group(sg, at.Child(i))
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+s+")")
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return strings.Join(parts, " "+string(g.Op)+" "), nil
}

func (b *builder) condition(c filtertree.Condition, at filtertree.Path, i int) (string, error) {
	col, ok := b.t.columns[c.Field]
	if !ok {
		return "", perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "field %q has no column", c.Field),
			at.ConditionAt(i, "field"),
		)
	}
	loc := at.ConditionAt(i, "values")

	switch c.Operator {
	case filtertree.OpContains:
		v := normalize.Value(c.Values[0])
		if col.Array {
			if b.t.dialect == ClickHouse {
				return fmt.Sprintf("has(%s, %s)", col.Name, b.bind(v)), nil
			}
			return fmt.Sprintf("%s = ANY(%s)", b.bind(v), col.Name), nil
		}
		if b.t.dialect == ClickHouse {
			return fmt.Sprintf("positionCaseInsensitiveUTF8(%s, %s) > 0", col.Name, b.bind(v)), nil
		}
		return fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", col.Name, b.bind(escapeLike(v))), nil

	case filtertree.OpEquals:
		v := normalize.Value(c.Values[0])
		if col.Array {
			if b.t.dialect == ClickHouse {
				return fmt.Sprintf("%s = [%s]", col.Name, b.bind(v)), nil
			}
			return fmt.Sprintf("%s = ARRAY[%s]::text[]", col.Name, b.bind(v)), nil
		}
		return fmt.Sprintf("%s = %s", col.Name, b.bind(v)), nil

	case filtertree.OpBefore:
		day, err := parseDay(c.Values[0], loc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s < %s", col.Name, b.bind(day)), nil

	case filtertree.OpAfter:
		day, err := parseDay(c.Values[0], loc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s >= %s", col.Name, b.bind(day.AddDate(0, 0, 1))), nil

	case filtertree.OpBetween:
		start, err := parseDay(c.Values[0], loc)
		if err != nil {
			return "", err
		}
		end, err := parseDay(c.Values[1], loc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s >= %s AND %s < %s)",
			col.Name, b.bind(start), col.Name, b.bind(end.AddDate(0, 0, 1))), nil

	default:
		return "", perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "operator %q has no SQL rendering", c.Operator),
			at.ConditionAt(i, "operator"),
		)
	}
}

// parseDay reads a YYYY-MM-DD value as midnight UTC; empty dates cannot be queried
func parseDay(v, loc string) (time.Time, error) {
	if v == "" {
		return time.Time{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "date value is empty"), loc)
	}
	d, err := time.ParseInLocation("2006-01-02", v, time.UTC)
	if err != nil {
		return time.Time{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "date value %q must look like YYYY-MM-DD", v), loc)
	}
	return d, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
