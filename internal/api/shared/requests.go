package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes limits the size of request bodies.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not a JSON object.
var ErrInvalidBody = errors.New("request body must be a JSON object")

// DecodeJSONObject decodes the request body into a loosely-typed map.
// Numbers are kept as json.Number so integer values survive unchanged.
func DecodeJSONObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return nil, ErrInvalidBody
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if out == nil {
		return nil, ErrInvalidBody
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}
	return out, nil
}
