package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/trezcool/myday/core/calendar"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator
)

var (
	// custom validation tags & texts
	sqlIdentTag   = "sqlident"
	sqlIdentText  = "{0} must be a valid SQL identifier"
	sqlIdentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

	hhmmTag  = "hhmm"
	hhmmText = "{0} must be a time of day formatted as HHMM or HH:MM"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "{0} is required"
)

func init() {
	translator, _ := ut.New(en.New()).GetTranslator("en")
	Translator = translator
	Validate = validator.New()
	InitValidators(Validate, Translator)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(sqlIdentTag, sqlIdentValidation)
	RegisterCustomTranslation(validate, translator, sqlIdentTag, sqlIdentText)

	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	RegisterCustomTranslation(validate, translator, hhmmTag, hhmmText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// sqlIdentValidation only allows (optionally schema-qualified) SQL identifiers,
// since procedure and table names are interpolated into queries.
func sqlIdentValidation(fl validator.FieldLevel) bool {
	return IsSQLIdent(fl.Field().String())
}

// hhmmValidation accepts wall-clock times such as "1530" or "15:30".
func hhmmValidation(fl validator.FieldLevel) bool {
	_, err := calendar.ParseClockTime(fl.Field().String())
	return err == nil
}

func IsSQLIdent(s string) bool {
	return sqlIdentRegex.MatchString(s)
}
