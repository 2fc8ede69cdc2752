package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/slighter12/mcp-toolserver-go/mcp/jsonrpc"
)

// call is one validated request item.
type call struct {
	id       any
	method   string
	params   map[string]any
	received []string
}

var (
	errNotObject      = errors.New("request must be a JSON object")
	errInvalidID      = errors.New("id must be a string, an integer or null")
	errInvalidVersion = errors.New(`jsonrpc must be exactly "2.0"`)
	errInvalidMethod  = errors.New("method must be a non-empty string")
	errInvalidParams  = errors.New("params must be an object")
)

// parseCall validates one request item. On failure it still returns the id
// when one could be read, so the error response can be correlated.
func parseCall(raw []byte) (call, error) {
	var c call

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return c, errNotObject
	}

	id, ok := parseID(doc.Get("id"))
	if !ok {
		return c, errInvalidID
	}
	c.id = id

	if version := doc.Get("jsonrpc"); version.Type != gjson.String || version.Str != jsonrpc.Version {
		return c, errInvalidVersion
	}

	method := doc.Get("method")
	if method.Type != gjson.String || strings.TrimSpace(method.Str) == "" {
		return c, errInvalidMethod
	}
	c.method = method.Str

	params, received, err := parseParams(doc.Get("params"))
	if err != nil {
		return c, err
	}
	c.params = params
	c.received = received
	return c, nil
}

// parseID accepts a string, an integer, null or an absent id.
func parseID(raw gjson.Result) (any, bool) {
	if !raw.Exists() {
		return nil, true
	}
	switch raw.Type {
	case gjson.Null:
		return nil, true
	case gjson.String:
		return raw.Str, true
	case gjson.Number:
		if !isJSONInteger(raw.Raw) {
			return nil, false
		}
		return json.Number(raw.Raw), true
	default:
		return nil, false
	}
}

// parseParams decodes an object params value keeping numbers exact. Keys are
// also returned in document order for error reporting.
func parseParams(raw gjson.Result) (map[string]any, []string, error) {
	if !raw.Exists() || raw.Type == gjson.Null {
		return map[string]any{}, []string{}, nil
	}
	if !raw.IsObject() {
		return nil, nil, errInvalidParams
	}

	received := []string{}
	seen := make(map[string]struct{})
	raw.ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			received = append(received, name)
		}
		return true
	})

	params := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw.Raw)))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, nil, errInvalidParams
	}
	return params, received, nil
}

// isJSONInteger reports whether a number literal has no fraction or exponent.
// Width is not checked; the literal is echoed back as written.
func isJSONInteger(value string) bool {
	return value != "" && !strings.ContainsAny(value, ".eE")
}
