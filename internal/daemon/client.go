package daemon

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/rpc"
)

// Client talks to a running bridge. Every call opens its own connection.
type Client struct {
	socketPath string
	timeout    time.Duration
	ids        rpc.IDs
}

// NewClient creates a new bridge client.
func NewClient(cfg Config) *Client {
	return &Client{
		socketPath: cfg.SocketPath,
		timeout:    cfg.Timeout,
	}
}

// Connect establishes a connection to the bridge.
func (c *Client) Connect(ctx context.Context) (net.Conn, error) {
	conn, err := rpc.Dial(ctx, c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge: %w", err)
	}
	return conn, nil
}

// IsRunning checks if the bridge is accepting connections.
func (c *Client) IsRunning() bool {
	conn, err := c.Connect(context.Background())
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// call performs one round trip.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req, err := rpc.NewRequest(c.ids.Next(), method, params)
	if err != nil {
		return err
	}

	conn, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := rpc.Exchange(ctx, conn, c.timeout, req, out); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return nil
}

// Ping checks if the bridge is responsive.
func (c *Client) Ping(ctx context.Context) error {
	var res PingResult
	if err := c.call(ctx, MethodPing, nil, &res); err != nil {
		return err
	}
	if !res.Pong {
		return fmt.Errorf("ping failed: bridge did not answer pong")
	}
	return nil
}

// Status retrieves bridge status.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var status StatusResult
	if err := c.call(ctx, MethodStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Query runs a query in the bridge's plugin. Cancelling ctx closes the
// connection; the bridge abandons the query when the next one arrives.
func (c *Client) Query(ctx context.Context, text string) ([]result.Result, error) {
	var dtos []result.DTO
	if err := c.call(ctx, MethodQuery, QueryParams{Text: text}, &dtos); err != nil {
		return nil, err
	}
	return result.FromDTOs(dtos), nil
}

// ContextMenus resolves the menu for a row previously returned by Query.
func (c *Client) ContextMenus(ctx context.Context, selected result.Result) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.call(ctx, MethodContextMenus, ContextMenusParams{Result: selected.ToDTO()}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Execute runs an action in the bridge.
func (c *Client) Execute(ctx context.Context, a action.Action) (*ExecuteResult, error) {
	var res ExecuteResult
	if err := c.call(ctx, MethodExecute, ExecuteParams{Action: a}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Save asks the bridge to persist its settings.
func (c *Client) Save(ctx context.Context) error {
	return c.call(ctx, MethodSave, nil, &SaveResult{})
}
