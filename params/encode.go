package params

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
)

// Query encodes the set as a URL query string without the leading '?'.
// Nil values are omitted. An empty set yields "".
func (s Set) Query() (string, error) {
	values, err := s.Values()
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

// Values stringifies every non-nil entry into url.Values.
func (s Set) Values() (url.Values, error) {
	values := make(url.Values, len(s))
	for k, v := range s {
		str, ok, err := Stringify(v)
		if err != nil {
			return nil, &EncodeError{Key: k, Err: err}
		}
		if !ok {
			continue
		}
		values.Set(k, str)
	}
	return values, nil
}

// JSON encodes the set as a JSON object. An empty or nil set yields "{}".
func (s Set) JSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(map[string]any(s))
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

// Stringify renders a single value the way Query does.
// The boolean result is false when the value is nil and must be omitted.
func Stringify(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return x, true, nil
	case bool:
		return strconv.FormatBool(x), true, nil
	case json.Number:
		return x.String(), true, nil
	case json.RawMessage:
		return string(x), true, nil
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func formatFloat(f float64, bits int) (string, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false, fmt.Errorf("unsupported float value %v", f)
	}
	return strconv.FormatFloat(f, 'f', -1, bits), true, nil
}
