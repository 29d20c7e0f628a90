package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/loreycode/cms-api/internal/store"
)

const maxJSONBody = 1 << 20

// decodeJSON reads the request body into dst and validates it. An empty
// body decodes as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) []FieldError {
	body, errs := readBody(w, r)
	if errs != nil {
		return errs
	}
	if errs := unmarshal(body, dst); errs != nil {
		return errs
	}
	return validateStruct(dst)
}

// decodeCreate decodes a create body and returns the columns it sets.
func decodeCreate[C any](w http.ResponseWriter, r *http.Request) (store.Fields, []FieldError) {
	var in C
	if errs := decodeJSON(w, r, &in); errs != nil {
		return nil, errs
	}
	return store.FieldsFrom(&in), nil
}

// decodePatch decodes a partial update. Only keys present in the body are
// returned; an explicit null clears a nullable column and is rejected for
// any other column.
func decodePatch[P any](w http.ResponseWriter, r *http.Request) (store.Fields, []FieldError) {
	body, errs := readBody(w, r)
	if errs != nil {
		return nil, errs
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, []FieldError{{Field: "body", Message: "must be a JSON object"}}
	}
	var patch P
	if errs := unmarshal(body, &patch); errs != nil {
		return nil, errs
	}

	var nullErrs []FieldError
	fields := store.FieldsFrom(&patch)
	for _, col := range store.ColumnsOf(reflect.TypeOf(patch)) {
		value, present := raw[col.JSON]
		if !present || !bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if col.Nullable {
			fields[col.Name] = nil
			continue
		}
		nullErrs = append(nullErrs, FieldError{Field: col.JSON, Message: col.JSON + " cannot be null"})
	}
	if nullErrs != nil {
		return nil, nullErrs
	}
	if errs := validateStruct(&patch); errs != nil {
		return nil, errs
	}
	return fields, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, []FieldError) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, []FieldError{{Field: "body", Message: "request body is too large"}}
		}
		return nil, []FieldError{{Field: "body", Message: "could not read request body"}}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

func unmarshal(body []byte, dst any) []FieldError {
	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []FieldError{{Field: typeErr.Field, Message: fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type))}}
	}
	return []FieldError{{Field: "body", Message: "must be a valid JSON object"}}
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	}
	return "of type " + t.String()
}
