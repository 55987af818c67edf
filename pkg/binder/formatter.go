package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	// FIXME: this doesn't work well for incorrect map values, e.g. it will say
	// `"metadata" should be a string instead of a object` if you pass in
	// `{"metadata":{"foo":{"bar":"baz"}}}`.
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

type messageFunc func(field string, err validator.FieldError) string

func fixed(format string) messageFunc {
	return func(field string, _ validator.FieldError) string {
		return fmt.Sprintf(format, field)
	}
}

// messages is keyed by validator tag. Tags without an entry get a generic
// "is invalid" message.
var messages = map[string]messageFunc{
	"aspectratio": fixed("%q should be a ratio like 16/9"),
	"date":        fixed("%q should be a date (YYYY-MM-DD) or an ISO-8601 timestamp"),
	"email":       fixed("%q is not a valid email"),
	"required":    fixed("%q is required"),
	"slug":        fixed("%q should only contain lowercase letters, numbers and hyphens"),
	"unique":      fixed("%q can't contain duplicates"),
	"url":         fixed("%q should be an http(s) URL or a path starting with /"),
	"max": func(field string, err validator.FieldError) string {
		return bound(field, "less than or equal to", err)
	},
	"min": func(field string, err validator.FieldError) string {
		return bound(field, "greater than or equal to", err)
	},
	"ne": func(field string, err validator.FieldError) string {
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	},
	"oneof": func(field string, err validator.FieldError) string {
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	},
}

func formatValidationError(err validator.FieldError) string {
	if fn, ok := messages[err.Tag()]; ok {
		return fn(err.Field(), err)
	}
	return fmt.Sprintf("%q is invalid", err.Field())
}

// bound words a min/max failure. Numbers compare by value, everything else by
// length.
func bound(field, relation string, err validator.FieldError) string {
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", field, relation, err.Param())
	}
	unit := "character"
	if k := err.Kind(); k == reflect.Slice || k == reflect.Array || k == reflect.Map {
		unit = "element"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", field, relation, err.Param(), unit)
}
