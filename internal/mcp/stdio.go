package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"

	"marketingminer-mcp/server/internal/jsonrpc"

	"go.uber.org/zap"
)

// stdio messages can carry sizeable tool results.
const maxStdioMessageSize = 4 * 1024 * 1024

// ServeStdio runs the JSON-RPC loop over newline-delimited messages, one
// request or notification per line. It returns when the reader is exhausted
// or the context is cancelled. Diagnostics must go to stderr in this mode;
// stdout carries protocol frames only.
func (h *Handler) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStdioMessageSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req jsonrpc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encodeErr := enc.Encode(jsonrpc.Response{
				JSONRPC: "2.0",
				Error:   &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"},
			}); encodeErr != nil {
				return encodeErr
			}
			continue
		}

		h.log.Debug("stdio request", zap.String("method", req.Method), zap.Any("id", req.ID))

		result, rpcErr := h.safeProcess(ctx, &req)
		if req.ID == nil {
			continue // notification, no response
		}

		resp := jsonrpc.Response{JSONRPC: "2.0", ID: req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// safeProcess shields the loop from panicking handlers; a failed call must
// never take the process down.
func (h *Handler) safeProcess(ctx context.Context, req *jsonrpc.Request) (result interface{}, rpcErr *jsonrpc.Error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic recovered",
				zap.String("method", req.Method),
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.ByteString("stack", debug.Stack()))
			result = nil
			rpcErr = &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "An unexpected error occurred"}
		}
	}()
	return h.ProcessRequest(ctx, req)
}
