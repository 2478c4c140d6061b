// Package transport defines the boundary to the chat service: typed
// request/response calls plus cancellable notification streams. The
// chat client is written against these interfaces; wsconn provides the
// reference implementation.
package transport

import "context"

// SendChatMessageRequest posts a message into a group chat room.
type SendChatMessageRequest struct {
	ChatGroupID  uint64 `json:"chat_group_id"`
	ChatID       uint64 `json:"chat_id"`
	Message      string `json:"message"`
	EchoToSender bool   `json:"echo_to_sender"`
	// TraceID correlates the send across log lines and, for matchers
	// that support it, the server echo.
	TraceID string `json:"trace_id,omitempty"`
}

// SendChatMessageResponse is the synchronous acknowledgement. Ordinal
// is nil when the server omitted it; the echo notification is then the
// only source for it.
type SendChatMessageResponse struct {
	ModifiedMessage string  `json:"modified_message"`
	ServerTimestamp uint32  `json:"server_timestamp"`
	Ordinal         *uint32 `json:"ordinal,omitempty"`
}

// SendFriendMessageRequest posts a direct message to a friend.
type SendFriendMessageRequest struct {
	SteamID       uint64 `json:"steamid"`
	Message       string `json:"message"`
	ChatEntryType int32  `json:"chat_entry_type"`
	EchoToSender  bool   `json:"echo_to_sender"`
}

type SendFriendMessageResponse struct {
	ModifiedMessage string `json:"modified_message"`
	ServerTimestamp uint32 `json:"server_timestamp"`
	MessageID       uint32 `json:"message_id"`
}

// ChatRoomGroupSummary describes one group the session belongs to.
type ChatRoomGroupSummary struct {
	ChatGroupID   uint64 `json:"chat_group_id"`
	DefaultChatID uint64 `json:"default_chat_id"`
	ChatGroupName string `json:"chat_group_name"`
}

type GetMyChatRoomGroupsResponse struct {
	Groups []ChatRoomGroupSummary `json:"chat_room_groups"`
}

type JoinChatRoomGroupRequest struct {
	ChatGroupID uint64 `json:"chat_group_id"`
	ChatID      uint64 `json:"chat_id"`
	InviteCode  string `json:"invite_code,omitempty"`
}

type JoinChatRoomGroupResponse struct {
	ChatGroupID uint64 `json:"chat_group_id"`
	ChatID      uint64 `json:"chat_id"`
}

type LeaveChatRoomGroupRequest struct {
	ChatGroupID uint64 `json:"chat_group_id"`
}

type GetChatRoomGroupStateRequest struct {
	ChatGroupID uint64 `json:"chat_group_id"`
}

type GetChatRoomGroupStateResponse struct {
	ChatGroupID uint64   `json:"chat_group_id"`
	ChatIDs     []uint64 `json:"chat_ids"`
	MemberCount uint32   `json:"member_count"`
}

// MessageRef identifies one stored message for deletion.
type MessageRef struct {
	ServerTimestamp uint32 `json:"server_timestamp"`
	Ordinal         uint32 `json:"ordinal"`
}

type DeleteChatMessagesRequest struct {
	ChatGroupID uint64       `json:"chat_group_id"`
	ChatID      uint64       `json:"chat_id"`
	Messages    []MessageRef `json:"messages"`
}

type DeleteChatMessagesResponse struct {
	Deleted uint32 `json:"deleted"`
}

// IncomingChatMessage is one group-chat notification. The session's
// own sends show up here too when echo-to-sender was requested.
type IncomingChatMessage struct {
	ChatGroupID uint64 `json:"chat_group_id"`
	ChatID      uint64 `json:"chat_id"`
	SenderID    uint64 `json:"steamid_sender"`
	Message     string `json:"message"`
	Timestamp   uint32 `json:"timestamp"`
	ChatName    string `json:"chat_name"`
	Ordinal     uint32 `json:"ordinal"`
}

// IncomingFriendMessage is one direct-message notification.
type IncomingFriendMessage struct {
	SenderID      uint64 `json:"steamid_friend"`
	Message       string `json:"message"`
	Timestamp     uint32 `json:"rtime32_server_timestamp"`
	ChatEntryType int32  `json:"chat_entry_type"`
}

// GroupMessageStream yields group-chat notifications in delivery
// order. Close releases the subscription; a closed or failed stream
// returns an error from Next and never recovers.
type GroupMessageStream interface {
	Next(ctx context.Context) (*IncomingChatMessage, error)
	Close() error
}

// FriendMessageStream yields direct-message notifications.
type FriendMessageStream interface {
	Next(ctx context.Context) (*IncomingFriendMessage, error)
	Close() error
}

// Transport is the connection handle shared across tasks. It performs
// its own internal synchronization; callers clone/share it freely.
// Each Subscribe call returns an independent stream: multiple
// subscribers consume the same notification feed concurrently without
// stealing items from each other.
type Transport interface {
	SendChatMessage(ctx context.Context, req *SendChatMessageRequest) (*SendChatMessageResponse, error)
	SendFriendMessage(ctx context.Context, req *SendFriendMessageRequest) (*SendFriendMessageResponse, error)
	GetMyChatRoomGroups(ctx context.Context) (*GetMyChatRoomGroupsResponse, error)
	JoinChatRoomGroup(ctx context.Context, req *JoinChatRoomGroupRequest) (*JoinChatRoomGroupResponse, error)
	LeaveChatRoomGroup(ctx context.Context, req *LeaveChatRoomGroupRequest) error
	GetChatRoomGroupState(ctx context.Context, req *GetChatRoomGroupStateRequest) (*GetChatRoomGroupStateResponse, error)
	DeleteChatMessages(ctx context.Context, req *DeleteChatMessagesRequest) (*DeleteChatMessagesResponse, error)

	SubscribeGroupMessages() (GroupMessageStream, error)
	SubscribeFriendMessages() (FriendMessageStream, error)
}
