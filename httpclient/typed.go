package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode unmarshals a succeeded outcome's JSON payload into T. A rejected
// outcome returns its error; a silently resolved one returns the zero T and
// ok=false.
func Decode[T any](out Outcome) (data T, ok bool, err error) {
	switch out.State {
	case StateRejected:
		return data, false, out.Err
	case StateSilentlyResolved:
		return data, false, nil
	}
	if len(out.Payload) == 0 {
		return data, true, nil
	}
	if err := json.Unmarshal(out.Payload, &data); err != nil {
		return data, false, fmt.Errorf("httpclient: decode response: %w", err)
	}
	return data, true, nil
}

// GetJSON performs a GET request and decodes the JSON payload into T.
func GetJSON[T any](ctx context.Context, c *Client, path string, query map[string]string) (T, bool, error) {
	return Decode[T](c.Get(ctx, path, query))
}

// PostJSON performs a POST request with a form body and decodes the JSON
// payload into T.
func PostJSON[T any](ctx context.Context, c *Client, path string, body any) (T, bool, error) {
	return Decode[T](c.Post(ctx, path, body))
}
