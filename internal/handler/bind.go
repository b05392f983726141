package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"gameshop/internal/service"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
)

// bindAndValidate binds the request into req and runs the struct validator.
// A JSON value of the wrong type is reported against its field like any
// other validation failure.
func bindAndValidate(c echo.Context, req interface{}) error {
	body, err := bufferBody(c.Request())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Bind(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return typeMismatch(typeErr, body)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

// bufferBody reads the body and puts it back so it can be bound afterwards.
func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func typeMismatch(typeErr *json.UnmarshalTypeError, body []byte) error {
	field := jsonPathAt(body, typeErr.Offset)
	if field == "" {
		field = typeErr.Field
	}
	if field == "" {
		field = "body"
	}
	return service.NewValidationError(field, "must be "+kindName(typeErr.Type))
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "a valid value"
	}
}

type jsonFrame struct {
	array     bool
	index     int
	key       string
	expectKey bool
}

// jsonPathAt returns the path, e.g. products[0].quantity, of the value that
// ends at offset in body. It returns "" when body cannot be walked that far.
func jsonPathAt(body []byte, offset int64) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var stack []*jsonFrame
	path := func() string {
		var b strings.Builder
		for _, f := range stack {
			if f.array {
				fmt.Fprintf(&b, "[%d]", f.index)
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(f.key)
		}
		return b.String()
	}
	advance := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.array {
			top.index++
		} else {
			top.expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if key, ok := tok.(string); ok && !top.array && top.expectKey {
				top.key = key
				top.expectKey = false
				continue
			}
		}

		switch tok {
		case json.Delim('{'), json.Delim('['):
			if dec.InputOffset() >= offset {
				return path()
			}
			stack = append(stack, &jsonFrame{array: tok == json.Delim('['), expectKey: tok == json.Delim('{')})
		case json.Delim('}'), json.Delim(']'):
			stack = stack[:len(stack)-1]
			advance()
		default:
			if dec.InputOffset() >= offset {
				return path()
			}
			advance()
		}
	}
}
