// Package apiclient turns a small set of capability interfaces into a typed
// GET/POST pipeline for JSON APIs.
//
// A client is any value implementing Identity. Everything else is optional
// and discovered by type assertion on that value:
//
//   - Defaults supplies default headers and query parameters.
//   - Builder replaces the default construction of a Descriptor.
//   - Modifier attaches auth or tracing headers before send. It is the only
//     stage allowed to fail before the request reaches the transport.
//   - ErrorResolver handles errors when the caller passes no error closure.
//   - Observer receives one Event per call.
//   - LoggerProvider supplies the logger used for per-call debug lines.
//
// Each call runs the same sequence: build, apply defaults, modify, send,
// interpret, decode. Failures are returned as *RequestError[E], where E is
// the caller's error payload type:
//
//	type Repo struct{ Name string `json:"name"` }
//	type APIError struct{ Message string `json:"message"` }
//
//	repo, err := apiclient.GetResult[Repo, APIError](ctx, gh, "/repos/golang/go", nil)
//	if apiclient.IsErrorPayload(err) {
//	    payload, _ := apiclient.PayloadOf[APIError](err)
//	    ...
//	}
//
// Get and Post additionally route the result through caller closures and
// collapse it to (T, bool).
//
// Most clients embed *Base, built from a Config by New, and override
// individual capability methods on their own type.
package apiclient
