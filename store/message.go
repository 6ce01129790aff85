package store

import (
	"encoding/json"
	"reflect"
	"strings"
)

const (
	unknownErrorMessage    = "Unknown error"
	unexpectedErrorMessage = "An unexpected error occurred"
)

// ExtractErrorMessage turns an arbitrary error value into a message.
//
// Precedence: empty values give "Unknown error", strings are returned as-is,
// then a non-empty error text, a "message" field, a string "error" field,
// and finally the JSON encoding of the value. Values that cannot be encoded
// give "An unexpected error occurred".
func ExtractErrorMessage(v any) string {
	if isEmpty(v) {
		return unknownErrorMessage
	}

	switch e := v.(type) {
	case string:
		return e
	case error:
		if msg := e.Error(); msg != "" {
			return msg
		}
	}

	if msg, ok := stringField(v, "message"); ok {
		return msg
	}
	if msg, ok := stringField(v, "error"); ok {
		return msg
	}

	b, err := json.Marshal(v)
	if err != nil {
		return unexpectedErrorMessage
	}
	return string(b)
}

// isEmpty reports nil, typed nil and zero scalars
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

// stringField looks up name in a string-keyed map or a struct (by json tag
// or case-insensitive field name) and returns it when it is a non-empty string.
func stringField(v any, name string) (string, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	var field reflect.Value
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		field = rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	case reflect.Struct:
		field = structField(rv, name)
	default:
		return "", false
	}

	if !field.IsValid() {
		return "", false
	}
	for field.Kind() == reflect.Interface || field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String || field.String() == "" {
		return "", false
	}
	return field.String(), true
}

func structField(rv reflect.Value, name string) reflect.Value {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}
