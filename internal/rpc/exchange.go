package rpc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ErrMalformed marks a response that could not be decoded.
var ErrMalformed = stderrors.New("malformed response")

// IDs generates request identifiers unique within one process.
type IDs struct {
	n atomic.Uint64
}

// Next returns the next request ID.
func (g *IDs) Next() string {
	return fmt.Sprintf("req-%d", g.n.Add(1))
}

// Exchange performs one request/response round trip on conn and decodes the
// result into out (which may be nil). Cancelling ctx closes conn so a blocked
// read returns at once; the context error is returned in that case.
//
// The caller owns conn and closes it afterwards.
func Exchange(ctx context.Context, conn net.Conn, timeout time.Duration, req Request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return fmt.Errorf("failed to receive response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}
	if len(resp.Result) == 0 {
		return fmt.Errorf("%w: missing result", ErrMalformed)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Dial connects to a unix socket, bounded by timeout and ctx.
func Dial(ctx context.Context, socketPath string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "unix", socketPath)
}
