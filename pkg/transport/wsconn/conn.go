// Package wsconn is the reference websocket implementation of the
// transport boundary. Requests and responses travel as JSON frames
// correlated by frame id; notifications fan out to every live
// subscriber over bounded queues so one slow consumer never stalls the
// read loop or the other subscribers.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

// Wire method names.
const (
	MethodSendChatMessage       = "ChatRoom.SendChatMessage"
	MethodSendFriendMessage     = "FriendMessages.SendMessage"
	MethodGetMyChatRoomGroups   = "ChatRoom.GetMyChatRoomGroups"
	MethodJoinChatRoomGroup     = "ChatRoom.JoinChatRoomGroup"
	MethodLeaveChatRoomGroup    = "ChatRoom.LeaveChatRoomGroup"
	MethodGetChatRoomGroupState = "ChatRoom.GetChatRoomGroupState"
	MethodDeleteChatMessages    = "ChatRoom.DeleteChatMessages"

	NotifyIncomingChatMessage   = "ChatRoom.IncomingChatMessage"
	NotifyIncomingFriendMessage = "FriendMessages.IncomingMessage"
)

// Frame is the single wire envelope: a request, its response, or a
// server-pushed notification.
type Frame struct {
	Type   string          `json:"type"` // request | response | notification
	ID     uint64          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Code   int32           `json:"code,omitempty"`
	Error  string          `json:"error,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

const (
	frameRequest      = "request"
	frameResponse     = "response"
	frameNotification = "notification"
)

type Options struct {
	Logger       *zap.Logger
	Header       http.Header
	CallTimeout  time.Duration // applied when the caller's ctx has no deadline
	WriteTimeout time.Duration
	QueueSize    int // per-subscriber notification buffer
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	return o
}

type callResult struct {
	frame *Frame
	err   error
}

// Conn is a shared connection handle. All methods are safe for
// concurrent use; callers pass the same *Conn to every task.
type Conn struct {
	ws   *websocket.Conn
	log  *zap.Logger
	opts Options

	writeMu sync.Mutex

	mu         sync.Mutex
	nextCallID uint64
	pending    map[uint64]chan callResult
	nextSubID  uint64
	groupSubs  map[uint64]*groupStream
	friendSubs map[uint64]*friendStream
	closed     bool
	closeErr   error

	done chan struct{}
}

var _ transport.Transport = (*Conn)(nil)

// Dial connects to the chat service endpoint and starts the read loop.
func Dial(ctx context.Context, addr string, opts Options) (*Conn, error) {
	opts = opts.withDefaults()

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, addr, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("wsconn: dial %s: status=%d: %w", addr, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("wsconn: dial %s: %w", addr, err)
	}

	c := &Conn{
		ws:         ws,
		log:        opts.Logger,
		opts:       opts,
		pending:    make(map[uint64]chan callResult),
		groupSubs:  make(map[uint64]*groupStream),
		friendSubs: make(map[uint64]*friendStream),
		done:       make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Close tears the connection down. Pending calls fail with ErrClosed
// and every subscriber stream ends.
func (c *Conn) Close() error {
	c.fail(transport.ErrClosed)
	return c.ws.Close()
}

// Done is closed once the connection is unusable.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Call performs one request/response exchange. Most callers use the
// typed wrappers; logon uses Call directly for the auth handshake.
func (c *Conn) Call(ctx context.Context, method string, req, resp any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return transport.NewError(method, 0, err)
	}

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return transport.NewError(method, 0, err)
	}
	c.nextCallID++
	id := c.nextCallID
	ch := make(chan callResult, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.writeFrame(&Frame{Type: frameRequest, ID: id, Method: method, Body: body}); err != nil {
		return transport.NewError(method, 0, err)
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return transport.NewError(method, 0, transport.ErrTimeout)
		}
		return ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return transport.NewError(method, 0, res.err)
		}
		f := res.frame
		if f.Code != 0 && transport.ResultCode(f.Code) != transport.ResultOK {
			msg := f.Error
			if msg == "" {
				msg = "request rejected"
			}
			return transport.NewError(method, transport.ResultCode(f.Code), errors.New(msg))
		}
		if resp == nil {
			return nil
		}
		if err := json.Unmarshal(f.Body, resp); err != nil {
			return transport.NewError(method, 0, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
}

func (c *Conn) writeFrame(f *Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Conn) readLoop() {
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			c.fail(fmt.Errorf("%w: %v", transport.ErrClosed, err))
			return
		}

		var f Frame
		if err := json.Unmarshal(payload, &f); err != nil {
			c.log.Warn("wsconn: dropping malformed frame", zap.Error(err))
			continue
		}

		switch f.Type {
		case frameResponse:
			c.mu.Lock()
			ch, ok := c.pending[f.ID]
			if ok {
				delete(c.pending, f.ID)
			}
			c.mu.Unlock()
			if ok {
				ch <- callResult{frame: &f}
			}
		case frameNotification:
			c.dispatchNotification(&f)
		default:
			c.log.Warn("wsconn: unknown frame type", zap.String("type", f.Type))
		}
	}
}

// fail marks the connection dead and unblocks everything waiting on
// it. Safe to call more than once; the first error wins.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeErr = err
	pending := c.pending
	c.pending = make(map[uint64]chan callResult)
	for _, g := range c.groupSubs {
		g.end(err)
	}
	for _, f := range c.friendSubs {
		f.end(err)
	}
	c.groupSubs = make(map[uint64]*groupStream)
	c.friendSubs = make(map[uint64]*friendStream)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- callResult{err: err}
	}
	close(c.done)
}
