package rpc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoParams struct {
	Text string `json:"text"`
}

// pipe starts ServeConn on one end of an in-memory connection and returns the other.
func pipe(t *testing.T, h HandlerFunc) net.Conn {
	t.Helper()
	client, server := net.Pipe()
	go func() { _ = ServeConn(context.Background(), server, time.Second, h) }()
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewRequest_EncodesParams(t *testing.T) {
	req, err := NewRequest("req-1", "search", echoParams{Text: "a"})
	require.NoError(t, err)

	assert.Equal(t, Version, req.JSONRPC)
	assert.JSONEq(t, `{"text":"a"}`, string(req.Params))

	noParams, err := NewRequest("req-2", "ping", nil)
	require.NoError(t, err)
	assert.Empty(t, noParams.Params)
}

func TestRequest_DecodeParams(t *testing.T) {
	req, err := NewRequest("1", "echo", echoParams{Text: "hello"})
	require.NoError(t, err)

	var p echoParams
	require.NoError(t, req.DecodeParams(&p))
	assert.Equal(t, "hello", p.Text)

	assert.Error(t, Request{Method: "echo"}.DecodeParams(&p))
}

func TestExchange_Success(t *testing.T) {
	conn := pipe(t, func(_ context.Context, req Request) Response {
		var p echoParams
		if err := req.DecodeParams(&p); err != nil {
			return NewErrorResponse(req.ID, ErrCodeInvalidParams, err.Error())
		}
		return NewSuccessResponse(req.ID, p)
	})

	req, err := NewRequest("req-1", "echo", echoParams{Text: "report.pdf"})
	require.NoError(t, err)

	var out echoParams
	require.NoError(t, Exchange(context.Background(), conn, time.Second, req, &out))
	assert.Equal(t, "report.pdf", out.Text)
}

func TestExchange_RemoteError(t *testing.T) {
	conn := pipe(t, func(_ context.Context, req Request) Response {
		return NewErrorResponse(req.ID, ErrCodeUnavailable, "index offline")
	})

	req, _ := NewRequest("req-1", "search", nil)
	err := Exchange(context.Background(), conn, time.Second, req, nil)

	var rpcErr *Error
	require.True(t, stderrors.As(err, &rpcErr))
	assert.Equal(t, ErrCodeUnavailable, rpcErr.Code)
	assert.Equal(t, "index offline", rpcErr.Message)
}

func TestExchange_MalformedResult(t *testing.T) {
	conn := pipe(t, func(_ context.Context, req Request) Response {
		return NewSuccessResponse(req.ID, "not an object")
	})

	req, _ := NewRequest("req-1", "echo", nil)
	var out echoParams
	err := Exchange(context.Background(), conn, time.Second, req, &out)

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExchange_GarbageResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		defer server.Close()
		var req Request
		_ = json.NewDecoder(server).Decode(&req)
		_, _ = server.Write([]byte("{not json}\n"))
	}()

	req, _ := NewRequest("req-1", "echo", nil)
	err := Exchange(context.Background(), client, time.Second, req, nil)

	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExchange_CancelUnblocksRead(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	// Server reads the request and never answers
	go func() {
		var req Request
		_ = json.NewDecoder(server).Decode(&req)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		req, _ := NewRequest("req-1", "search", nil)
		done <- Exchange(ctx, client, 10*time.Second, req, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("exchange did not return after cancel")
	}
}

func TestExchange_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := Exchange(ctx, client, time.Second, Request{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServeConn_InvalidRequest(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		_ = ServeConn(context.Background(), server, time.Second, func(context.Context, Request) Response {
			t.Error("handler should not be called")
			return Response{}
		})
	}()

	require.NoError(t, json.NewEncoder(client).Encode(Request{ID: "x", Method: "ping"}))

	var resp Response
	require.NoError(t, json.NewDecoder(client).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidRequest, resp.Error.Code)
}

func TestIDs_Unique(t *testing.T) {
	var ids IDs
	assert.Equal(t, "req-1", ids.Next())
	assert.Equal(t, "req-2", ids.Next())
}
