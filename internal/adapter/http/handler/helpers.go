package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError assigns to it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// decodeJSON decodes the request body into v and validates its tags.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}

		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", trimNamespace(fe.Namespace()), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	return nil
}

// trimNamespace drops the top-level struct name from a validator namespace.
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrNormalBalanceMismatch),
		errors.Is(err, domain.ErrAccountTypeNotRegistered),
		errors.Is(err, domain.ErrNotEntityAccountType):
		return http.StatusConflict

	case errors.Is(err, domain.ErrEmptyEntries),
		errors.Is(err, domain.ErrMixedActions),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrZeroSum),
		errors.Is(err, domain.ErrUnbalanced),
		errors.Is(err, domain.ErrWrongSide),
		errors.Is(err, domain.ErrMixedLedgers),
		errors.Is(err, domain.ErrEmptyTransaction):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrReservedPrefix),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidUnitCode),
		errors.Is(err, domain.ErrInvalidExternalID),
		errors.Is(err, domain.ErrInvalidLedgerSlug),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// requestLocale picks the first Accept-Language tag, falling back to def.
func requestLocale(r *http.Request, def language.Tag) language.Tag {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return def
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return def
	}

	return tags[0]
}
