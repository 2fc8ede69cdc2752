package jsonrpc

import "encoding/json"

// Version is the only protocol version accepted on the wire.
const Version = "2.0"

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// NewResponse creates a new JSON-RPC response
func NewResponse(id any, result any) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates a new JSON-RPC error response
func NewErrorResponse(id any, code ErrorCode, message string, data any) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   NewError(code, message, data),
	}
}
