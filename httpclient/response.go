package httpclient

import (
	"encoding/json"
	"fmt"
)

// Text returns the body decoded as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON parses the body into v. A malformed body returns a wrapped
// decoding error, not one of the failure kinds.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpclient: decode response body: %w", err)
	}
	return nil
}

// JSONAs parses the body into a value of type T.
func JSONAs[T any](r *Response) (T, error) {
	var v T
	if err := r.JSON(&v); err != nil {
		return v, err
	}
	return v, nil
}
