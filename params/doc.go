// Package params holds the Parameter Set used by apiclient requests and the
// encoder that turns it into a URL query string or a JSON body.
//
// Values are stringified per their JSON type when placed in a query string:
//
//   - strings verbatim
//   - integers and floats as plain decimal (no exponent)
//   - booleans as "true" / "false"
//   - arrays and objects as compact JSON text
//   - nil values are omitted from the query string entirely
//
// Keys are emitted in sorted order, so the same set always encodes to the
// same string.
//
//	p := params.Set{"q": "go", "page": 2, "draft": nil}
//	qs, _ := p.Query() // "page=2&q=go"
package params
