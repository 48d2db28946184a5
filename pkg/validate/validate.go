// Package validate produces field-level validation errors in the shape the
// API returns them: a map from JSON field name to a list of messages.
//
// Two entry points:
//
//   - Struct walks `validate` struct tags (used for full request bodies):
//
//     type RegisterInput struct {
//     Username string `json:"username" validate:"required,max=150"`
//     Email    string `json:"email"    validate:"required,email"`
//     Password string `json:"password" validate:"required,min=4"`
//     }
//
//   - Errors plus the rule helpers build error maps programmatically, which
//     suits partial payloads where only supplied fields are checked.
//
// Supported tag rules: required, email, min=N, max=N, alpha_dash.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Errors maps a JSON field name to its list of failure messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether at least one field failed.
func (e Errors) Any() bool { return len(e) > 0 }

// Merge copies every message from other into e.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Struct validates every exported field of v carrying a `validate` tag and
// returns all failures. Fields are reported under their JSON names.
func Struct(v interface{}) Errors {
	errs := Errors{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)

		for _, rule := range strings.Split(tag, ",") {
			if msg := applyRule(rule, name, value); msg != "" {
				errs.Add(name, msg)
			}
		}
	}
	return errs
}

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if raw != "" && !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "min":
		n, _ := strconv.Atoi(param)
		if raw != "" && len([]rune(raw)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n, _ := strconv.Atoi(param)
		if len([]rune(raw)) > n {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", param)
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s may only contain letters, numbers, dashes, and underscores.", field)
			}
		}
	}
	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// ── Rule helpers for programmatic validation ─────────────────────────────────

// MaxLen checks a string length bound.
func MaxLen(errs Errors, field, value string, max int) {
	if len([]rune(value)) > max {
		errs.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", max))
	}
}

// Money checks a decimal against a digit budget: at most maxDigits significant
// digits in total, of which at most places after the decimal point.
func Money(errs Errors, field string, value decimal.Decimal, maxDigits, places int) {
	if int(value.Exponent()) < -places {
		errs.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", places))
		return
	}

	intDigits := len(value.Abs().Truncate(0).String())
	if value.Abs().LessThan(decimal.New(1, 0)) {
		intDigits = 0
	}
	if intDigits > maxDigits-places {
		errs.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits))
	}
}
