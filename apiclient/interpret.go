package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/kbukum/apikit/httpclient"
)

// ErrEmptyErrorBody is the cause of KindInvalidErrorBody when a failure
// response has no body to decode.
var ErrEmptyErrorBody = errors.New("empty error body")

// Outcome is a classified response.
type Outcome struct {
	Success    bool
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Interpret classifies a response: 2xx is success, everything else failure.
func Interpret(resp *httpclient.Response) Outcome {
	return Outcome{
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
	}
}

// Decode turns an outcome into a T or a *RequestError[E]. An empty success
// body decodes to the zero T. Fields the target type does not declare are
// ignored.
func Decode[T, E any](o Outcome) (T, error) {
	return decode[T, E](o, false)
}

// DecodeStrict is Decode, except that a body with fields T (or E) does not
// declare is classified as invalid instead of decoded partially.
func DecodeStrict[T, E any](o Outcome) (T, error) {
	return decode[T, E](o, true)
}

func decode[T, E any](o Outcome, strict bool) (T, error) {
	var value T
	empty := len(bytes.TrimSpace(o.Body)) == 0

	if o.Success {
		if empty {
			return value, nil
		}
		if err := unmarshal(o.Body, &value, strict); err != nil {
			var zero T
			return zero, &RequestError[E]{
				Kind:       KindInvalidResponseBody,
				StatusCode: o.StatusCode,
				Body:       o.Body,
				Err:        err,
			}
		}
		return value, nil
	}

	fail := &RequestError[E]{StatusCode: o.StatusCode, Body: o.Body}
	if empty {
		fail.Kind = KindInvalidErrorBody
		fail.Err = ErrEmptyErrorBody
		return value, fail
	}
	if err := unmarshal(o.Body, &fail.Payload, strict); err != nil {
		var zero E
		fail.Kind = KindInvalidErrorBody
		fail.Payload = zero
		fail.Err = err
		return value, fail
	}
	fail.Kind = KindErrorPayload
	return value, fail
}

func unmarshal(data []byte, v any, strict bool) error {
	if !strict {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("json: unexpected data after top-level value")
	}
	return nil
}
