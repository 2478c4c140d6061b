package wsconn

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

// groupStream is one independent subscription to incoming group chat
// messages. The queue is bounded like the im-push outbound queues:
// when a subscriber falls behind, new items are dropped for that
// subscriber only.
type groupStream struct {
	c  *Conn
	id uint64
	ch chan *transport.IncomingChatMessage

	endOnce sync.Once
	endCh   chan struct{}
	err     error
}

type friendStream struct {
	c  *Conn
	id uint64
	ch chan *transport.IncomingFriendMessage

	endOnce sync.Once
	endCh   chan struct{}
	err     error
}

// SubscribeGroupMessages registers a new independent consumer of group
// chat notifications.
func (c *Conn) SubscribeGroupMessages() (transport.GroupMessageStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, c.closeErr
	}
	c.nextSubID++
	s := &groupStream{
		c:     c,
		id:    c.nextSubID,
		ch:    make(chan *transport.IncomingChatMessage, c.opts.QueueSize),
		endCh: make(chan struct{}),
	}
	c.groupSubs[s.id] = s
	return s, nil
}

// SubscribeFriendMessages registers a new independent consumer of
// direct-message notifications.
func (c *Conn) SubscribeFriendMessages() (transport.FriendMessageStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, c.closeErr
	}
	c.nextSubID++
	s := &friendStream{
		c:     c,
		id:    c.nextSubID,
		ch:    make(chan *transport.IncomingFriendMessage, c.opts.QueueSize),
		endCh: make(chan struct{}),
	}
	c.friendSubs[s.id] = s
	return s, nil
}

func (c *Conn) dispatchNotification(f *Frame) {
	switch f.Method {
	case NotifyIncomingChatMessage:
		var n transport.IncomingChatMessage
		if err := json.Unmarshal(f.Body, &n); err != nil {
			c.log.Warn("wsconn: dropping malformed chat notification", zap.Error(err))
			return
		}
		c.mu.Lock()
		for _, s := range c.groupSubs {
			select {
			case s.ch <- &n:
			default:
				c.log.Warn("wsconn: group subscriber queue full, dropping item",
					zap.Uint64("sub_id", s.id))
			}
		}
		c.mu.Unlock()
	case NotifyIncomingFriendMessage:
		var n transport.IncomingFriendMessage
		if err := json.Unmarshal(f.Body, &n); err != nil {
			c.log.Warn("wsconn: dropping malformed friend notification", zap.Error(err))
			return
		}
		c.mu.Lock()
		for _, s := range c.friendSubs {
			select {
			case s.ch <- &n:
			default:
				c.log.Warn("wsconn: friend subscriber queue full, dropping item",
					zap.Uint64("sub_id", s.id))
			}
		}
		c.mu.Unlock()
	default:
		c.log.Debug("wsconn: ignoring notification", zap.String("method", f.Method))
	}
}

func (s *groupStream) end(err error) {
	s.endOnce.Do(func() {
		s.err = err
		close(s.endCh)
	})
}

func (s *groupStream) Next(ctx context.Context) (*transport.IncomingChatMessage, error) {
	select {
	case n := <-s.ch:
		return n, nil
	default:
	}
	select {
	case n := <-s.ch:
		return n, nil
	case <-s.endCh:
		if s.err != nil {
			return nil, s.err
		}
		return nil, transport.ErrStreamEnded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *groupStream) Close() error {
	s.c.mu.Lock()
	delete(s.c.groupSubs, s.id)
	s.c.mu.Unlock()
	s.end(nil)
	return nil
}

func (s *friendStream) end(err error) {
	s.endOnce.Do(func() {
		s.err = err
		close(s.endCh)
	})
}

func (s *friendStream) Next(ctx context.Context) (*transport.IncomingFriendMessage, error) {
	select {
	case n := <-s.ch:
		return n, nil
	default:
	}
	select {
	case n := <-s.ch:
		return n, nil
	case <-s.endCh:
		if s.err != nil {
			return nil, s.err
		}
		return nil, transport.ErrStreamEnded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *friendStream) Close() error {
	s.c.mu.Lock()
	delete(s.c.friendSubs, s.id)
	s.c.mu.Unlock()
	s.end(nil)
	return nil
}
