package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/mcp"
	"github.com/slighter12/mcp-toolserver-go/mcp/jsonrpc"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const healthyStatus = "healthy"

// RegisterRoutes mounts the tool routes at the root and under the versioned prefix.
func RegisterRoutes(e *echo.Echo, s *Server) {
	e.GET("/health", s.handleHealth)
	for _, prefix := range []string{"", mcp.APIPrefix} {
		e.GET(prefix+"/tools", s.handleListTools)
		e.POST(prefix+"/tools/:name", s.handleCallTool)
		e.POST(prefix+"/rpc", s.handleRPC)
	}
}

type toolCallRequest struct {
	Parameters json.RawMessage `json:"parameters"`
}

func detailBody(detail string) map[string]string {
	return map[string]string{"detail": detail}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     healthyStatus,
		"tool_count": s.toolManager.Count(),
		"version":    mcp.ServerVersion,
	})
}

func (s *Server) handleListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"tools": s.toolManager.ListTools(),
	})
}

func (s *Server) handleRPC(c echo.Context) error {
	body, err := s.readBody(c)
	if err != nil {
		if _, ok := errors.AsType[*http.MaxBytesError](err); ok {
			logger.Warn("Request body too large", "limit_bytes", s.config.Server.MaxBodyBytes, "remote_addr", c.RealIP())
			return c.JSON(http.StatusRequestEntityTooLarge, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrInvalidRequest, "Request body too large", nil))
		}
		logger.Warn("Failed to read request body", "error", err)
		return c.JSON(http.StatusOK, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, jsonrpc.MessageParseError, nil))
	}

	return c.JSON(http.StatusOK, s.dispatcher.Handle(c.Request().Context(), body))
}

// handleCallTool is the legacy per-tool endpoint. Its failures use plain
// HTTP statuses with a detail string instead of JSON-RPC errors.
func (s *Server) handleCallTool(c echo.Context) error {
	name := c.Param("name")

	body, err := s.readBody(c)
	if err != nil {
		if _, ok := errors.AsType[*http.MaxBytesError](err); ok {
			return c.JSON(http.StatusRequestEntityTooLarge, detailBody("request body too large"))
		}
		return c.JSON(http.StatusBadRequest, detailBody("failed to read request body"))
	}

	params, err := decodeParameters(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, detailBody(err.Error()))
	}

	result, err := s.toolManager.Invoke(c.Request().Context(), name, params)
	if err == nil {
		raw, encErr := json.Marshal(result)
		if encErr == nil {
			return c.JSON(http.StatusOK, map[string]any{"result": json.RawMessage(raw)})
		}
		err = &types.ExecutionError{Tool: name, Err: encErr}
	}

	switch {
	case types.IsNotFound(err):
		return c.JSON(http.StatusNotFound, detailBody(err.Error()))
	default:
		if mismatch, ok := types.AsArgumentMismatch(err); ok {
			return c.JSON(http.StatusBadRequest, detailBody(mismatch.Error()))
		}
		logger.ErrorContext(c.Request().Context(), "Tool call failed", "tool", name, "error", err)
		return c.JSON(http.StatusBadRequest, detailBody("tool execution failed"))
	}
}

func (s *Server) readBody(c echo.Context) ([]byte, error) {
	limited := http.MaxBytesReader(c.Response(), c.Request().Body, s.config.Server.MaxBodyBytes)
	defer limited.Close()
	return io.ReadAll(limited)
}

var errParametersRequired = errors.New(`request body must be a JSON object with a "parameters" object`)

func decodeParameters(body []byte) (map[string]any, error) {
	var req toolCallRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errParametersRequired
	}
	raw := bytes.TrimSpace(req.Parameters)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errParametersRequired
	}

	params := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, errParametersRequired
	}
	return params, nil
}
