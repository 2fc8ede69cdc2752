package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/slighter12/mcp-toolserver-go/audit"
	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/mcp/jsonrpc"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

// Registry is the part of the tool registry the dispatcher needs.
type Registry interface {
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)
	Names() []string
}

// Dispatcher maps JSON-RPC bodies onto registry invocations.
type Dispatcher struct {
	registry Registry
	workers  int
	recorder *audit.Recorder
}

// NewDispatcher creates a dispatcher running at most workers batch items at
// once. A nil recorder disables the audit trail. Execution failures the
// recorder does not accept are logged directly.
func NewDispatcher(registry Registry, workers int, recorder *audit.Recorder) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		registry: registry,
		workers:  workers,
		recorder: recorder,
	}
}

// Handle processes one raw request body. It returns a *jsonrpc.Response for a
// single request or a []*jsonrpc.Response for a batch, and never panics.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Dispatcher panic", "panic", r, "stack", string(debug.Stack()))
			payload = jsonrpc.NewErrorResponse(nil, jsonrpc.ErrInternalError, jsonrpc.MessageInternalError, nil)
		}
	}()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return d.reject(nil, "", "empty request body")
	}
	if !gjson.ValidBytes(trimmed) {
		d.record(audit.Event{Outcome: audit.OutcomeInvalidRequest, Code: int(jsonrpc.ErrParseError), Detail: "invalid JSON"})
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, jsonrpc.MessageParseError, nil)
	}

	if trimmed[0] != '[' {
		return d.handleItem(ctx, trimmed)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, jsonrpc.MessageParseError, nil)
	}
	if len(items) == 0 {
		return d.reject(nil, "", "empty batch")
	}
	return d.handleBatch(ctx, items)
}

// handleBatch runs items on a bounded worker pool. Each item owns its slot so
// the output order always matches the input order.
func (d *Dispatcher) handleBatch(ctx context.Context, items []json.RawMessage) []*jsonrpc.Response {
	responses := make([]*jsonrpc.Response, len(items))

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, item := range items {
		g.Go(func() error {
			responses[i] = d.handleItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return responses
}

func (d *Dispatcher) handleItem(ctx context.Context, raw []byte) (resp *jsonrpc.Response) {
	var id any
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Request item panic", "id", id, "panic", r, "stack", string(debug.Stack()))
			resp = jsonrpc.NewErrorResponse(id, jsonrpc.ErrInternalError, jsonrpc.MessageInternalError, nil)
		}
	}()

	c, err := parseCall(raw)
	id = c.id
	if err != nil {
		return d.reject(c.id, c.method, err.Error())
	}

	start := time.Now()
	result, err := d.registry.Invoke(ctx, c.method, c.params)
	elapsed := time.Since(start)
	event := audit.Event{RequestID: c.id, Method: c.method, Duration: elapsed}

	if err == nil {
		value, encErr := json.Marshal(result)
		if encErr == nil {
			event.Outcome = audit.OutcomeSuccess
			d.record(event)
			return jsonrpc.NewResponse(c.id, map[string]any{"value": json.RawMessage(value)})
		}
		err = &types.ExecutionError{Tool: c.method, Err: fmt.Errorf("encode result: %w", encErr)}
	}

	if types.IsNotFound(err) {
		event.Outcome = audit.OutcomeNotFound
		event.Code = int(jsonrpc.ErrMethodNotFound)
		d.record(event)
		return jsonrpc.NewErrorResponse(c.id, jsonrpc.ErrMethodNotFound, fmt.Sprintf("Tool %s not found", c.method), map[string]any{
			"available_tools": nonNil(d.registry.Names()),
		})
	}

	if mismatch, ok := types.AsArgumentMismatch(err); ok {
		event.Outcome = audit.OutcomeInvalidParams
		event.Code = int(jsonrpc.ErrInvalidParams)
		event.Detail = mismatch.Error()
		d.record(event)
		return jsonrpc.NewErrorResponse(c.id, jsonrpc.ErrInvalidParams, jsonrpc.MessageInvalidParams, map[string]any{
			"error":           mismatch.Error(),
			"required_params": nonNil(mismatch.Required),
			"received_params": nonNil(c.received),
		})
	}

	event.Outcome = audit.OutcomeFailure
	event.Code = int(jsonrpc.ErrInternalError)
	event.Detail = err.Error()
	if !d.record(event) {
		logger.ErrorContext(ctx, "Tool execution failed", "id", c.id, "method", c.method, "error", err)
	}
	return jsonrpc.NewErrorResponse(c.id, jsonrpc.ErrInternalError, jsonrpc.MessageToolFailed, map[string]any{
		"error_code": jsonrpc.ToolExecuteFailed,
	})
}

func (d *Dispatcher) reject(id any, method, detail string) *jsonrpc.Response {
	d.record(audit.Event{
		RequestID: id,
		Method:    method,
		Outcome:   audit.OutcomeInvalidRequest,
		Code:      int(jsonrpc.ErrInvalidRequest),
		Detail:    detail,
	})
	return jsonrpc.NewErrorResponse(id, jsonrpc.ErrInvalidRequest, jsonrpc.MessageInvalidRequest, detail)
}

func (d *Dispatcher) record(e audit.Event) bool {
	return d.recorder.Record(e)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
