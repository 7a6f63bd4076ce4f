package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/rpc"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
)

// Handler is the plugin surface the bridge exposes. *plugin.Plugin
// implements it.
type Handler interface {
	Query(ctx context.Context, text string) []result.Result
	LoadContextMenus(selected result.Result) []menu.Item
	ExecuteWith(ctx context.Context, a action.Action, n action.Notifier) bool
	Save() error
	ProviderName() string
	ProviderReady() bool
	Metrics() *telemetry.QueryMetrics
}

// Server listens on a Unix socket and handles RPC requests. Connections
// are served concurrently, so overlapping query requests race exactly as
// an in-process host's would and supersede each other.
type Server struct {
	socketPath string
	timeout    time.Duration
	handler    Handler
	logger     *slog.Logger
	started    time.Time

	mu       sync.Mutex
	listener net.Listener
	shutdown bool
	wg       sync.WaitGroup
}

// NewServer creates a server for h on socketPath.
func NewServer(socketPath string, timeout time.Duration, h Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		timeout:    timeout,
		handler:    h,
		logger:     logger,
	}
}

// ListenAndServe starts the server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	// Clean up any stale socket
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to restrict socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.started = time.Now()
	s.mu.Unlock()

	defer func() {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)
	}()

	s.logger.Info("bridge listening", slog.String("socket", s.socketPath))

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isShutdown() {
				break
			}
			s.logger.Error("accept error", slog.String("error", err.Error()))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := rpc.ServeConn(ctx, conn, s.timeout, s.handle); err != nil {
				s.logger.Debug("connection ended with error", slog.String("error", err.Error()))
			}
		}()
	}

	s.wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// handle dispatches a request to the plugin.
func (s *Server) handle(ctx context.Context, req rpc.Request) rpc.Response {
	switch req.Method {
	case MethodPing:
		return rpc.NewSuccessResponse(req.ID, PingResult{Pong: true})

	case MethodStatus:
		return rpc.NewSuccessResponse(req.ID, s.status())

	case MethodQuery:
		var params QueryParams
		if err := req.DecodeParams(&params); err != nil {
			return rpc.NewErrorResponse(req.ID, rpc.ErrCodeInvalidParams, err.Error())
		}
		return rpc.NewSuccessResponse(req.ID, result.ToDTOs(s.handler.Query(ctx, params.Text)))

	case MethodContextMenus:
		var params ContextMenusParams
		if err := req.DecodeParams(&params); err != nil {
			return rpc.NewErrorResponse(req.ID, rpc.ErrCodeInvalidParams, err.Error())
		}
		return rpc.NewSuccessResponse(req.ID, s.handler.LoadContextMenus(result.FromDTO(params.Result)))

	case MethodExecute:
		return s.handleExecute(ctx, req)

	case MethodSave:
		if err := s.handler.Save(); err != nil {
			s.logger.Error("save failed", errors.LogAttrs(err)...)
			return rpc.NewErrorResponse(req.ID, rpc.ErrCodeInternalError, err.Error())
		}
		return rpc.NewSuccessResponse(req.ID, SaveResult{})

	default:
		return rpc.NewErrorResponse(req.ID, rpc.ErrCodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleExecute(ctx context.Context, req rpc.Request) rpc.Response {
	var params ExecuteParams
	if err := req.DecodeParams(&params); err != nil {
		return rpc.NewErrorResponse(req.ID, rpc.ErrCodeInvalidParams, err.Error())
	}
	if err := params.Validate(); err != nil {
		return rpc.NewErrorResponse(req.ID, rpc.ErrCodeInvalidParams, err.Error())
	}

	var res ExecuteResult
	notify := action.NotifierFunc(func(title, subtitle string) {
		res.Notifications = append(res.Notifications, Notification{Title: title, Subtitle: subtitle})
	})
	res.Dismiss = s.handler.ExecuteWith(ctx, params.Action, notify)
	return rpc.NewSuccessResponse(req.ID, res)
}

// status returns the current server status.
func (s *Server) status() StatusResult {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	st := StatusResult{
		Running:       true,
		PID:           os.Getpid(),
		Uptime:        time.Since(started).Round(time.Second).String(),
		Provider:      s.handler.ProviderName(),
		ProviderReady: s.handler.ProviderReady(),
	}

	if m := s.handler.Metrics(); m != nil {
		snap := m.Snapshot()
		st.Queries = snap.TotalQueries
		st.Superseded = snap.Count(telemetry.OutcomeSuperseded)
		st.Unavailable = snap.Count(telemetry.OutcomeUnavailable)
		st.Faults = snap.Count(telemetry.OutcomeFault)
		if len(snap.TopTerms) > 5 {
			st.TopTerms = snap.TopTerms[:5]
		} else {
			st.TopTerms = snap.TopTerms
		}
	}
	return st
}

// Close stops accepting connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
