// FILE: svckit/src/internal/testkit/response.go
package testkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"svckit/src/internal/dict"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
)

// ErrUnexpectedResponse is wrapped by every ExpectedResponse validation failure.
var ErrUnexpectedResponse = errors.New("unexpected response")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExpectedResponse describes what a test expects an HTTP response to contain.
type ExpectedResponse struct {
	// StatusCode defaults to 200 when zero
	StatusCode int
	// Headers must be present with exactly these values
	Headers map[string]string
	// Body must be a sub-mapping of the JSON response body
	Body dict.Map
	// Schema is a struct or slice value whose type the body must decode into and validate against
	Schema any
}

// Validate checks status, headers, schema and body, in that order.
func (e ExpectedResponse) Validate(resp *fasthttp.Response) error {
	want := e.StatusCode
	if want == 0 {
		want = http.StatusOK
	}
	if got := resp.StatusCode(); got != want {
		return fmt.Errorf("%w: status %d, want %d", ErrUnexpectedResponse, got, want)
	}

	for name, value := range e.Headers {
		if got := string(resp.Header.Peek(name)); got != value {
			return fmt.Errorf("%w: header %s is %q, want %q", ErrUnexpectedResponse, name, got, value)
		}
	}

	if e.Schema != nil {
		if _, err := DecodeSchema(resp.Body(), e.Schema); err != nil {
			return fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
		}
	}

	if e.Body != nil {
		var body map[string]any
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return fmt.Errorf("%w: body is not a JSON object: %w", ErrUnexpectedResponse, err)
		}
		if ok, key := dict.IsSubdict(e.Body, body); !ok {
			return fmt.Errorf("%w: body mismatch at %q", ErrUnexpectedResponse, key)
		}
	}
	return nil
}

// DecodeSchema decodes data into a new value of schema's type and validates it.
// Struct fields are checked with their validate tags; slices are checked element by element.
func DecodeSchema(data []byte, schema any) (any, error) {
	typ := reflect.TypeOf(schema)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	target := reflect.New(typ)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return nil, fmt.Errorf("body does not match %s: %w", typ, err)
	}
	value := target.Elem()

	switch typ.Kind() {
	case reflect.Struct:
		if err := validate.Struct(value.Interface()); err != nil {
			return nil, fmt.Errorf("body fails %s validation: %w", typ, err)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			item := reflect.Indirect(value.Index(i))
			if item.Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(item.Interface()); err != nil {
				return nil, fmt.Errorf("body item %d fails %s validation: %w", i, item.Type(), err)
			}
		}
	}
	return value.Interface(), nil
}
