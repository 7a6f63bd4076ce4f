package rpc

import (
	"context"
	"encoding/json"
	"net"
	"time"
)

// HandlerFunc answers one decoded request.
type HandlerFunc func(ctx context.Context, req Request) Response

// ServeConn reads a single request from conn, answers it and closes conn.
// A request that cannot be decoded gets a parse error response.
func ServeConn(ctx context.Context, conn net.Conn, timeout time.Duration, h HandlerFunc) error {
	defer conn.Close()

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(conn)

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		return encoder.Encode(NewErrorResponse("", ErrCodeParseError, "failed to parse request"))
	}
	if req.JSONRPC != Version || req.Method == "" {
		return encoder.Encode(NewErrorResponse(req.ID, ErrCodeInvalidRequest, "invalid request"))
	}

	return encoder.Encode(h(ctx, req))
}
