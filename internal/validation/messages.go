package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func structField(s any, name string) (reflect.StructField, bool) {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}

	return t.FieldByName(name)
}

func jsonName(s any, name string) string {
	f, ok := structField(s, name)
	if !ok {
		return strings.ToLower(name)
	}

	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(name)
	}

	return tag
}

func message(s any, fe validator.FieldError) string {
	// msg_<tag> overrides msg for fields with more than one rule.
	if f, ok := structField(s, fe.StructField()); ok {
		if msg := f.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := f.Tag.Get("msg"); msg != "" {
			return msg
		}
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.StructField())
	case "email":
		return "Please include valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.StructField(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.StructField(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.StructField(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.StructField())
	default:
		return fmt.Sprintf("%s is invalid", fe.StructField())
	}
}
