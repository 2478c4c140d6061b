package chat

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/internal/metrics"
	"github.com/KetherPL/SC-Sub-Poster/pkg/preprocess"
	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

// EchoMatcher decides whether an incoming notification is the echo of
// the message a send operation just posted.
type EchoMatcher interface {
	Match(params SendGroupMessageParams, n *transport.IncomingChatMessage) bool
}

// EchoMatcherFunc adapts a function to EchoMatcher.
type EchoMatcherFunc func(SendGroupMessageParams, *transport.IncomingChatMessage) bool

func (f EchoMatcherFunc) Match(params SendGroupMessageParams, n *transport.IncomingChatMessage) bool {
	return f(params, n)
}

// RoomPairMatcher matches on the (chat group id, chat id) pair only.
// Under concurrent sends into the same room it can accept the echo of
// a different send; callers who care set a stronger matcher in
// Options (the per-send trace id already travels on the request for
// that purpose).
func RoomPairMatcher() EchoMatcher {
	return EchoMatcherFunc(func(params SendGroupMessageParams, n *transport.IncomingChatMessage) bool {
		return n.ChatGroupID == params.ChatGroupID && n.ChatID == params.ChatID
	})
}

// awaitEcho scans the notification stream for the echo of the send
// described by params and backfills msg's ordinal and timestamp from
// it. It mutates msg at most once. Timeouts and stream failures
// degrade softly: msg keeps a nil Ordinal and a warning is logged.
func (c *Client) awaitEcho(ctx context.Context, params SendGroupMessageParams, msg *preprocess.ProcessedMessage, traceID string) {
	stream, err := c.tr.SubscribeGroupMessages()
	if err != nil {
		c.log.Warn("echo subscription failed; ordinal not available",
			zap.Uint64("chat_group_id", params.ChatGroupID),
			zap.Uint64("chat_id", params.ChatID),
			zap.String("trace_id", traceID),
			zap.Error(err),
		)
		metrics.EchoTimeouts.Inc()
		return
	}
	defer stream.Close()

	ctx, cancel := context.WithTimeout(ctx, c.opts.EchoTimeout)
	defer cancel()

	for {
		n, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// Caller gave up; nothing to report.
				return
			}
			metrics.EchoTimeouts.Inc()
			c.log.Warn("timed out waiting for echo notification; ordinal not available for deletion",
				zap.Uint64("chat_group_id", params.ChatGroupID),
				zap.Uint64("chat_id", params.ChatID),
				zap.String("trace_id", traceID),
			)
			return
		}

		if c.opts.Matcher.Match(params, n) {
			ordinal, timestamp := n.Ordinal, n.Timestamp
			msg.Ordinal = &ordinal
			msg.ServerTimestamp = &timestamp
			metrics.EchoBackfilled.Inc()
			return
		}

		c.pause(ctx, c.opts.Throttle)
	}
}

// pause sleeps for d or until ctx is done, whichever comes first.
func (c *Client) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
