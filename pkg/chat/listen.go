package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/internal/metrics"
)

// ErrCallbackFailed marks a dispatch loop stopped by its handler.
// The handler's own error is joined in and reachable via errors.Is/As.
var ErrCallbackFailed = errors.New("chat: notification callback failed")

// GroupMessageHandler consumes incoming group chat messages. Returning
// an error stops the dispatch loop and propagates the error to whoever
// started it.
type GroupMessageHandler interface {
	Handle(msg *GroupMessage) error
}

// GroupMessageHandlerFunc adapts a function to GroupMessageHandler.
type GroupMessageHandlerFunc func(*GroupMessage) error

func (f GroupMessageHandlerFunc) Handle(msg *GroupMessage) error { return f(msg) }

// FriendMessageHandler consumes incoming direct messages.
type FriendMessageHandler interface {
	Handle(msg *FriendMessage) error
}

// FriendMessageHandlerFunc adapts a function to FriendMessageHandler.
type FriendMessageHandlerFunc func(*FriendMessage) error

func (f FriendMessageHandlerFunc) Handle(msg *FriendMessage) error { return f(msg) }

// ListenGroupMessages consumes the group message stream until the
// handler fails, the stream fails, or ctx is cancelled. Items are
// handled strictly in delivery order with a minimum spacing of
// Options.Throttle; each message runs through the preprocessing
// pipeline before the handler sees it.
//
// After a stream-level failure the loop sleeps Options.StreamBackoff
// once and returns the stream error. It never reconnects: restarting
// is the caller's decision.
func (c *Client) ListenGroupMessages(ctx context.Context, h GroupMessageHandler) error {
	stream, err := c.tr.SubscribeGroupMessages()
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		n, err := stream.Next(ctx)
		if err != nil {
			return c.streamFailed(ctx, "group", err)
		}

		metrics.NotificationsDispatched.Inc()
		if err := h.Handle(groupMessageFromNotification(n)); err != nil {
			metrics.HandlerFailures.Inc()
			return errors.Join(ErrCallbackFailed, err)
		}

		c.pause(ctx, c.opts.Throttle)
	}
}

// ListenFriendMessages is ListenGroupMessages for the direct-message
// stream.
func (c *Client) ListenFriendMessages(ctx context.Context, h FriendMessageHandler) error {
	stream, err := c.tr.SubscribeFriendMessages()
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		n, err := stream.Next(ctx)
		if err != nil {
			return c.streamFailed(ctx, "friend", err)
		}

		metrics.NotificationsDispatched.Inc()
		if err := h.Handle(friendMessageFromNotification(n)); err != nil {
			metrics.HandlerFailures.Inc()
			return errors.Join(ErrCallbackFailed, err)
		}

		c.pause(ctx, c.opts.Throttle)
	}
}

func (c *Client) streamFailed(ctx context.Context, kind string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	metrics.StreamFailures.Inc()
	c.log.Warn("notification stream failed; stopping dispatch loop",
		zap.String("stream", kind),
		zap.Error(err),
	)
	c.pause(ctx, c.opts.StreamBackoff)
	return err
}
