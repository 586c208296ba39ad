// Package bind decodes request bodies and runs the shared validator over them
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps how much of a request body is read
const MaxBody = 1 << 20

type validatorSvc struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// shared returns the validator singleton with english messages and json field names
func shared() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")
		short(v, trans, "oneof", "{0} must be one of [{1}]")

		vSvc = &validatorSvc{v: v, trans: trans}
	})
	return vSvc
}

// ParseJSON strictly decodes one JSON document into T and validates it
// unknown fields, trailing data and empty bodies are JSON errors
// a failed rule is a validation error naming the json field
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero, dst T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	// a nil writer is allowed; the server closes oversized connections on its own
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		return zero, decodeErr(err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := shared().v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			logger.C(r.Context()).Error().Err(err).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		fe := verrs[0]
		return zero, perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(shared().trans)),
			fe.Field(),
		)
	}
	return dst, nil
}

func decodeErr(err error) error {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return perr.Newf(perr.ErrorCodeValidation, "request body exceeds %d bytes", tooBig.Limit)
	case errors.Is(err, io.EOF):
		return perr.JSONErrf("empty body")
	default:
		return perr.JSONErrf("invalid JSON: %v", err)
	}
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
