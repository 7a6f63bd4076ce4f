package daemon

import (
	"fmt"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
)

// JSON-RPC 2.0 method names.
const (
	MethodPing         = "ping"
	MethodStatus       = "status"
	MethodQuery        = "query"
	MethodContextMenus = "context_menus"
	MethodExecute      = "execute"
	MethodSave         = "save"
)

// QueryParams are the parameters for the query method. An empty text is
// valid: it abandons the query in flight and returns no rows.
type QueryParams struct {
	Text string `json:"text"`
}

// ContextMenusParams are the parameters for the context_menus method.
type ContextMenusParams struct {
	Result result.DTO `json:"result"`
}

// ExecuteParams are the parameters for the execute method.
type ExecuteParams struct {
	Action action.Action `json:"action"`
}

// Validate checks that the action is complete.
func (p *ExecuteParams) Validate() error {
	if err := p.Action.Validate(); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}
	return nil
}

// Notification is a message the plugin asked the host to show while
// executing an action.
type Notification struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// ExecuteResult tells the host whether to hide its list and what to show.
type ExecuteResult struct {
	Dismiss       bool           `json:"dismiss"`
	Notifications []Notification `json:"notifications,omitempty"`
}

// MenuItems is the result of the context_menus method.
type MenuItems = []menu.Item

// StatusResult contains bridge status information.
type StatusResult struct {
	Running       bool                  `json:"running"`
	PID           int                   `json:"pid"`
	Uptime        string                `json:"uptime"`
	Provider      string                `json:"provider"`
	ProviderReady bool                  `json:"provider_ready"`
	Queries       int64                 `json:"queries"`
	Superseded    int64                 `json:"superseded"`
	Unavailable   int64                 `json:"unavailable"`
	Faults        int64                 `json:"faults"`
	TopTerms      []telemetry.TermCount `json:"top_terms,omitempty"`
}

// PingResult is the response to a ping request.
type PingResult struct {
	Pong bool `json:"pong"`
}

// SaveResult is the (empty) response to a save request.
type SaveResult struct{}
