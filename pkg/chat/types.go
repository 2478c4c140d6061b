package chat

import (
	"github.com/KetherPL/SC-Sub-Poster/pkg/preprocess"
	"github.com/KetherPL/SC-Sub-Poster/pkg/steamid"
	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

// ChatRoomInfo describes one chat room group the session belongs to.
type ChatRoomInfo struct {
	ChatGroupID   uint64
	ChatID        uint64
	ChatName      string
	ChatGroupName string
	IsJoined      bool
}

// SendGroupMessageParams are the inputs to SendGroupMessage.
// EchoToSender asks the server to reflect the message back on the
// notification stream; that echo is also what the client uses to
// recover the ordinal when the synchronous response omits it.
type SendGroupMessageParams struct {
	ChatGroupID  uint64
	ChatID       uint64
	Message      string
	EchoToSender bool
}

// FriendMessage is one inbound direct message.
type FriendMessage struct {
	SenderID      steamid.SteamID
	Message       string
	Timestamp     uint32
	ChatEntryType int32
}

// GroupMessage is one inbound group chat message together with its
// annotated record.
type GroupMessage struct {
	ChatGroupID uint64
	ChatID      uint64
	SenderID    steamid.SteamID
	Message     string
	Timestamp   uint32
	ChatName    string
	Ordinal     uint32
	Processed   *preprocess.ProcessedMessage
}

func groupMessageFromNotification(n *transport.IncomingChatMessage) *GroupMessage {
	return &GroupMessage{
		ChatGroupID: n.ChatGroupID,
		ChatID:      n.ChatID,
		SenderID:    steamid.SteamID(n.SenderID),
		Message:     n.Message,
		Timestamp:   n.Timestamp,
		ChatName:    n.ChatName,
		Ordinal:     n.Ordinal,
		Processed:   preprocess.PreprocessMessage(n.Message),
	}
}

func friendMessageFromNotification(n *transport.IncomingFriendMessage) *FriendMessage {
	return &FriendMessage{
		SenderID:      steamid.SteamID(n.SenderID),
		Message:       n.Message,
		Timestamp:     n.Timestamp,
		ChatEntryType: n.ChatEntryType,
	}
}

// UpdateFromNotification rebuilds a processed record from an echo
// notification: the server text wins, and the notification's ordinal
// and timestamp become the record's. OriginalMessage is preserved.
func UpdateFromNotification(pm *preprocess.ProcessedMessage, n *transport.IncomingChatMessage) *preprocess.ProcessedMessage {
	updated := preprocess.ProcessResponse(pm.OriginalMessage, n.Message, n.Timestamp, n.Ordinal)
	return updated
}
