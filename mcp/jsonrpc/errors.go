package jsonrpc

type ErrorCode int

// JSON-RPC 2.0 Error Codes
const (
	ErrParseError     ErrorCode = -32700 // Invalid JSON was received by the server
	ErrInvalidRequest ErrorCode = -32600 // The JSON sent is not a valid Request object
	ErrMethodNotFound ErrorCode = -32601 // The method does not exist / is not available
	ErrInvalidParams  ErrorCode = -32602 // Invalid method parameter(s)
	ErrInternalError  ErrorCode = -32603 // Internal JSON-RPC error
)

// Standard messages paired with the codes above.
const (
	MessageParseError     = "Parse error"
	MessageInvalidRequest = "Invalid request"
	MessageInvalidParams  = "Invalid params"
	MessageInternalError  = "Internal error"
	MessageToolFailed     = "Tool execution failed"
)

// ToolExecuteFailed is the only detail an execution failure carries past the process boundary.
const ToolExecuteFailed = "TOOL_EXECUTE_FAILED"

// Error represents a JSON-RPC error object.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// NewError creates a new JSON-RPC error
func NewError(code ErrorCode, message string, data any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
