package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ConfigError reports missing or malformed settings found before any SIS fetch.
type ConfigError struct {
	Section string
	Err     error
	Fields  []FieldError
}

// NewConfigError wraps err (usually validator.ValidationErrors) for the given config section.
func NewConfigError(section string, err error) error {
	cfgErr := &ConfigError{Section: section, Err: err}
	for _, fe := range TranslateFieldErrors(err) {
		fe.Field = section + "." + fe.Field
		cfgErr.Fields = append(cfgErr.Fields, fe)
	}
	return cfgErr
}

func (err ConfigError) Error() string {
	if len(err.Fields) == 0 {
		return fmt.Sprintf("invalid %s configuration: %v", err.Section, err.Err)
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fe := range err.Fields {
		msgs = append(msgs, fe.Field+": "+fe.Error)
	}
	return fmt.Sprintf("invalid %s configuration: %s", err.Section, strings.Join(msgs, "; "))
}

func (err ConfigError) Unwrap() error {
	return err.Err
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

// TranslateFieldErrors turns validator errors into translated FieldErrors.
// It returns nil when err does not carry validation errors.
func TranslateFieldErrors(err error) []FieldError {
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		fields = append(fields, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return fields
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
