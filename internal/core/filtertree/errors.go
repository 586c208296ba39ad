package filtertree

import (
	"fmt"
	"strconv"
	"strings"

	perr "postfilter/internal/platform/errors"
)

// invalid builds a ValidationError pointing at path
// the field on the error carries the offending location, e.g. groups[1].conditions[0].values
func invalid(at string, format string, a ...any) error {
	err := perr.Newf(perr.ErrorCodeValidation, format, a...)
	if at == "" {
		return err
	}
	return perr.WithField(err, at)
}

// IsValidation reports whether err is a ValidationError raised by this package
func IsValidation(err error) bool { return perr.IsCode(err, perr.ErrorCodeValidation) }

// where renders a location in wire terms
func where(p Path, tail ...string) string {
	var b strings.Builder
	for _, i := range p {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString("groups[")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(']')
	}
	for _, t := range tail {
		if t == "" {
			continue
		}
		if b.Len() > 0 && !strings.HasPrefix(t, "[") {
			b.WriteByte('.')
		}
		b.WriteString(t)
	}
	return b.String()
}

func condAt(i int) string { return fmt.Sprintf("conditions[%d]", i) }

// Locate renders p plus an optional tail in the same form ValidationErrors use
func (p Path) Locate(tail ...string) string { return where(p, tail...) }

// ConditionAt renders the wire location of condition i inside the group at p
func (p Path) ConditionAt(i int, tail ...string) string {
	return where(p, append([]string{condAt(i)}, tail...)...)
}
