// Package chat is the client facade for the group-chat service: it
// sends and receives messages, annotates every one of them through the
// preprocessing pipeline, and reconciles outgoing sends with their
// asynchronous server echoes.
package chat

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sony/sonyflake"
	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/internal/metrics"
	"github.com/KetherPL/SC-Sub-Poster/pkg/preprocess"
	"github.com/KetherPL/SC-Sub-Poster/pkg/steamid"
	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

var ErrNoMessages = errors.New("chat: cannot delete empty list of messages")

// Options tune the client. Zero values fall back to defaults.
type Options struct {
	Logger *zap.Logger
	// EchoTimeout bounds the wait for the echo notification that
	// carries the ordinal when the send response omitted it.
	EchoTimeout time.Duration
	// Throttle is the minimum spacing between notification items, both
	// in dispatch loops and while scanning for an echo.
	Throttle time.Duration
	// StreamBackoff is slept once after a stream-level failure before
	// the dispatch loop stops and reports it.
	StreamBackoff time.Duration
	// Matcher decides whether a notification is the echo of a send.
	// Defaults to RoomPairMatcher.
	Matcher EchoMatcher
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.EchoTimeout <= 0 {
		o.EchoTimeout = 5 * time.Second
	}
	if o.Throttle <= 0 {
		o.Throttle = 25 * time.Millisecond
	}
	if o.StreamBackoff <= 0 {
		o.StreamBackoff = 250 * time.Millisecond
	}
	if o.Matcher == nil {
		o.Matcher = RoomPairMatcher()
	}
	return o
}

// Client wraps a shared transport handle. The transport does its own
// synchronization, so one Client may be used from many goroutines; no
// other state is shared between concurrent operations.
type Client struct {
	tr    transport.Transport
	log   *zap.Logger
	opts  Options
	flake *sonyflake.Sonyflake
}

func New(tr transport.Transport, opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		tr:    tr,
		log:   opts.Logger,
		opts:  opts,
		flake: sonyflake.NewSonyflake(sonyflake.Settings{}),
	}
}

// Transport exposes the underlying handle for operations the facade
// does not cover.
func (c *Client) Transport() transport.Transport { return c.tr }

// traceID mints a per-send id for log correlation. Best effort: a
// machine without a usable private IP just sends without one.
func (c *Client) traceID() string {
	if c.flake == nil {
		return ""
	}
	id, err := c.flake.NextID()
	if err != nil {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

// GetMyChatRooms lists the chat room groups the session is a member
// of.
func (c *Client) GetMyChatRooms(ctx context.Context) ([]ChatRoomInfo, error) {
	resp, err := c.tr.GetMyChatRoomGroups(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]ChatRoomInfo, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		rooms = append(rooms, ChatRoomInfo{
			ChatGroupID:   g.ChatGroupID,
			ChatID:        g.DefaultChatID,
			ChatName:      g.ChatGroupName,
			ChatGroupName: g.ChatGroupName,
			IsJoined:      true,
		})
	}
	return rooms, nil
}

// JoinChatRoom joins a chat room group. inviteCode may be empty for
// public rooms.
func (c *Client) JoinChatRoom(ctx context.Context, chatGroupID, chatID uint64, inviteCode string) (*transport.JoinChatRoomGroupResponse, error) {
	return c.tr.JoinChatRoomGroup(ctx, &transport.JoinChatRoomGroupRequest{
		ChatGroupID: chatGroupID,
		ChatID:      chatID,
		InviteCode:  inviteCode,
	})
}

// LeaveChatRoom leaves a chat room group.
func (c *Client) LeaveChatRoom(ctx context.Context, chatGroupID uint64) error {
	return c.tr.LeaveChatRoomGroup(ctx, &transport.LeaveChatRoomGroupRequest{ChatGroupID: chatGroupID})
}

// GetChatRoomState fetches the current state of a chat room group.
func (c *Client) GetChatRoomState(ctx context.Context, chatGroupID uint64) (*transport.GetChatRoomGroupStateResponse, error) {
	return c.tr.GetChatRoomGroupState(ctx, &transport.GetChatRoomGroupStateRequest{ChatGroupID: chatGroupID})
}

// SendGroupMessage sends a message into a group chat room and returns
// its annotated record.
//
// The wire text is the un-escaped form of params.Message; the record
// is annotated from the server-modified text. When the synchronous
// response omits the ordinal and the caller asked for echo-to-sender,
// the client waits (bounded by Options.EchoTimeout) for the echo
// notification and backfills ordinal and timestamp from it. An echo
// timeout is not a failure: the message was sent, only its record is
// incomplete (Ordinal stays nil).
func (c *Client) SendGroupMessage(ctx context.Context, params SendGroupMessageParams) (*preprocess.ProcessedMessage, error) {
	traceID := c.traceID()

	resp, err := c.tr.SendChatMessage(ctx, &transport.SendChatMessageRequest{
		ChatGroupID:  params.ChatGroupID,
		ChatID:       params.ChatID,
		Message:      preprocess.PrepareForSending(params.Message),
		EchoToSender: params.EchoToSender,
		TraceID:      traceID,
	})
	if err != nil {
		return nil, err
	}
	metrics.GroupMessagesSent.Inc()

	var ordinal uint32
	if resp.Ordinal != nil {
		ordinal = *resp.Ordinal
	}
	msg := preprocess.ProcessResponse(params.Message, resp.ModifiedMessage, resp.ServerTimestamp, ordinal)
	if resp.Ordinal == nil {
		// Not known yet; only the echo notification can supply it.
		msg.Ordinal = nil
	}

	if params.EchoToSender && msg.Ordinal == nil {
		c.awaitEcho(ctx, params, msg, traceID)
	}

	c.log.Debug("group message dispatched",
		zap.Uint64("chat_group_id", params.ChatGroupID),
		zap.Uint64("chat_id", params.ChatID),
		zap.String("trace_id", traceID),
		zap.Bool("ordinal_known", msg.Ordinal != nil),
	)
	return msg, nil
}

// SendFriendMessage sends a direct message to a friend.
func (c *Client) SendFriendMessage(ctx context.Context, friendID steamid.SteamID, message string, chatEntryType int32) (*transport.SendFriendMessageResponse, error) {
	resp, err := c.tr.SendFriendMessage(ctx, &transport.SendFriendMessageRequest{
		SteamID:       uint64(friendID),
		Message:       message,
		ChatEntryType: chatEntryType,
		EchoToSender:  true,
	})
	if err != nil {
		return nil, err
	}
	metrics.FriendMessagesSent.Inc()
	c.log.Debug("friend message dispatched",
		zap.String("friend", friendID.Steam3()),
		zap.Int32("chat_entry_type", chatEntryType),
	)
	return resp, nil
}

// DeleteMessages deletes group chat messages by their
// (server timestamp, ordinal) pairs. Ordinal 0 is a legitimate
// identifier.
func (c *Client) DeleteMessages(ctx context.Context, chatGroupID, chatID uint64, refs []transport.MessageRef) (*transport.DeleteChatMessagesResponse, error) {
	if len(refs) == 0 {
		return nil, ErrNoMessages
	}
	resp, err := c.tr.DeleteChatMessages(ctx, &transport.DeleteChatMessagesRequest{
		ChatGroupID: chatGroupID,
		ChatID:      chatID,
		Messages:    refs,
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("group messages deleted",
		zap.Uint64("chat_group_id", chatGroupID),
		zap.Uint64("chat_id", chatID),
		zap.Int("message_count", len(refs)),
	)
	return resp, nil
}

// DeleteProcessedMessages deletes the messages behind processed
// records. Records still missing their timestamp or ordinal are
// skipped with a warning; if nothing usable remains, an error is
// returned.
func (c *Client) DeleteProcessedMessages(ctx context.Context, chatGroupID, chatID uint64, msgs []*preprocess.ProcessedMessage) (*transport.DeleteChatMessagesResponse, error) {
	refs := make([]transport.MessageRef, 0, len(msgs))
	skipped := 0
	for _, m := range msgs {
		if m == nil || m.ServerTimestamp == nil || m.Ordinal == nil {
			skipped++
			continue
		}
		refs = append(refs, transport.MessageRef{
			ServerTimestamp: *m.ServerTimestamp,
			Ordinal:         *m.Ordinal,
		})
	}
	if skipped > 0 {
		c.log.Warn("skipping messages with missing identifiers",
			zap.Int("skipped", skipped),
			zap.Int("total", len(msgs)),
		)
	}
	if len(refs) == 0 {
		if skipped > 0 {
			return nil, errors.New("chat: all messages had missing server_timestamp or ordinal")
		}
		return nil, ErrNoMessages
	}
	return c.DeleteMessages(ctx, chatGroupID, chatID, refs)
}
