package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aman-CERP/everyfind/internal/rpc"
)

// MethodSearch is the index service's search method.
const MethodSearch = "search"

// SearchParams are the parameters of the search method.
type SearchParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// RPCClient searches an index service over a unix socket. Each search is one
// connection carrying one request; cancelling the context closes it.
type RPCClient struct {
	socketPath string
	timeout    time.Duration
	ids        rpc.IDs
	logger     *slog.Logger
}

// NewRPCClient creates a client for the index service at socketPath.
// A zero timeout defaults to 10s.
func NewRPCClient(socketPath string, timeout time.Duration, logger *slog.Logger) *RPCClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCClient{socketPath: socketPath, timeout: timeout, logger: logger}
}

// Search implements Client.
func (c *RPCClient) Search(ctx context.Context, text string, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := rpc.Dial(ctx, c.socketPath, c.timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Unavailable(err)
	}
	defer conn.Close()

	req, err := rpc.NewRequest(c.ids.Next(), MethodSearch, SearchParams{Query: text, Limit: limit})
	if err != nil {
		return nil, Fault("failed to encode search request", err)
	}

	var matches []Match
	if err := rpc.Exchange(ctx, conn, c.timeout, req, &matches); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var rpcErr *rpc.Error
		if stderrors.As(err, &rpcErr) && rpcErr.Code == rpc.ErrCodeUnavailable {
			return nil, Unavailable(err)
		}
		return nil, Fault("index service search failed", err)
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	for i, m := range matches {
		if m.Kind == KindUnknown {
			return nil, Fault(fmt.Sprintf("index service returned result %d without a kind", i), nil)
		}
	}

	c.logger.Debug("rpc search completed",
		slog.String("socket", c.socketPath),
		slog.Int("result_count", len(matches)))

	return matches, nil
}
