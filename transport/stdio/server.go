package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/mcp/jsonrpc"
	"github.com/slighter12/mcp-toolserver-go/transport/shared"
)

const defaultMaxLineBytes = 1 << 20

// StdioServer serves newline-delimited JSON-RPC over a reader/writer pair.
// Every non-blank input line is one request body and yields exactly one
// output line.
type StdioServer struct {
	dispatcher   *shared.Dispatcher
	in           io.Reader
	out          io.Writer
	maxLineBytes int
	mu           sync.Mutex
}

// NewStdioServer creates a stdio server. maxLineBytes <= 0 selects 1 MiB.
func NewStdioServer(dispatcher *shared.Dispatcher, in io.Reader, out io.Writer, maxLineBytes int) *StdioServer {
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	return &StdioServer{
		dispatcher:   dispatcher,
		in:           in,
		out:          out,
		maxLineBytes: maxLineBytes,
	}
}

// Start reads until EOF or ctx is cancelled.
func (s *StdioServer) Start(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, min(64*1024, s.maxLineBytes)), s.maxLineBytes)
	encoder := json.NewEncoder(s.out)

	logger.Debug("Stdio server started and waiting for messages")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			logger.Debug("Stdio server context cancelled")
			return nil
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		payload := s.dispatcher.Handle(ctx, line)
		if err := s.write(encoder, payload); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			logger.Error("Stdio request line too large", "limit_bytes", s.maxLineBytes)
			resp := jsonrpc.NewErrorResponse(nil, jsonrpc.ErrInvalidRequest, jsonrpc.MessageInvalidRequest, "request line too large")
			if werr := s.write(encoder, resp); werr != nil {
				return werr
			}
		}
		return fmt.Errorf("read stdio: %w", err)
	}

	logger.Debug("Stdio EOF received, terminating server")
	return nil
}

func (s *StdioServer) write(encoder *json.Encoder, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := encoder.Encode(payload); err != nil {
		logger.Error("Error encoding response", "error", err)
		return fmt.Errorf("write stdio: %w", err)
	}
	return nil
}
