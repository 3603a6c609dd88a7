// Package validate checks struct fields against rules in a `validate` tag.
//
// Rules are comma-separated; multi-value parameters use "|":
//
//	required        field must not be zero/empty (false is a value)
//	nullable        skip the remaining rules when the field is empty
//	email           valid email address
//	url             absolute http(s) URL
//	urls            every element of a string slice is an absolute http(s) URL
//	min=N / max=N   numbers: value bound; strings: rune count; slices: length
//	gte=N / lte=N   numeric bounds
//	between=A|B     numbers: value in [A,B]; strings: rune count in [A,B]
//	in=a|b|c        value is one of the listed items
//
// Pointer fields are dereferenced; a nil pointer is empty.
//
//	type ProductInput struct {
//	    Name     string   `json:"name"     validate:"required,between=2|200"`
//	    Discount *float64 `json:"discount" validate:"nullable,between=0|100"`
//	    Images   []string `json:"images"   validate:"max=10,urls"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Struct validates the exported fields of v that carry a `validate` tag and
// returns fieldName → message. The first failing rule per field wins.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		value := indirect(rv.Field(i))
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if msg := apply(strings.TrimSpace(rule), name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func apply(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "", "nullable":
		return ""
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(text(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		if !isURL(text(v)) {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "urls":
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				if !isURL(text(v.Index(i))) {
					return fmt.Sprintf("The %s must contain only valid URLs.", field)
				}
			}
		}
	case "min":
		n := number(param)
		switch {
		case isNumeric(v) && toFloat(v) < n:
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		case v.Kind() == reflect.Slice && float64(v.Len()) < n:
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		case v.Kind() == reflect.String && float64(utf8.RuneCountInString(v.String())) < n:
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := number(param)
		switch {
		case isNumeric(v) && toFloat(v) > n:
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		case v.Kind() == reflect.Slice && float64(v.Len()) > n:
			return fmt.Sprintf("The %s must not have more than %s items.", field, param)
		case v.Kind() == reflect.String && float64(utf8.RuneCountInString(v.String())) > n:
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		if toFloat(v) < number(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toFloat(v) > number(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "between":
		lo, hi, ok := strings.Cut(param, "|")
		if !ok {
			return ""
		}
		a, b := number(lo), number(hi)
		if isNumeric(v) {
			if f := toFloat(v); f < a || f > b {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if n := float64(utf8.RuneCountInString(text(v))); n < a || n > b {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}
	case "in":
		got := text(v)
		for _, allowed := range strings.Split(param, "|") {
			if got == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return number(text(v))
}

func text(v reflect.Value) string {
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func number(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
