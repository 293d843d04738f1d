package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/google/go-querystring/query"
)

// EncodeForm serializes a request body into application/x-www-form-urlencoded
// text. Maps are encoded with keys sorted, so {a: 1, b: "x"} becomes
// "a=1&b=x". Slices repeat the key. Structs use `url` field tags. Strings
// and byte slices are taken as already encoded.
func EncodeForm(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case url.Values:
		return v.Encode(), nil
	case map[string]string:
		values := make(url.Values, len(v))
		for k, s := range v {
			values.Set(k, s)
		}
		return values.Encode(), nil
	case map[string][]string:
		return url.Values(v).Encode(), nil
	case map[string]any:
		values := make(url.Values, len(v))
		for k, item := range v {
			values[k] = formValues(item)
		}
		return values.Encode(), nil
	}

	rv := reflect.ValueOf(body)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		values, err := query.Values(rv.Interface())
		if err != nil {
			return "", fmt.Errorf("encode form: %w", err)
		}
		return values.Encode(), nil
	}
	return "", fmt.Errorf("encode form: unsupported body type %T", body)
}

// formValues flattens one map value into its form representation.
func formValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{t}
	case []string:
		return t
	case bool:
		return []string{strconv.FormatBool(t)}
	case fmt.Stringer:
		return []string{t.String()}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, formValues(rv.Index(i).Interface())...)
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}
