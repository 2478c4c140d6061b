package wsconn

import (
	"context"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

func (c *Conn) SendChatMessage(ctx context.Context, req *transport.SendChatMessageRequest) (*transport.SendChatMessageResponse, error) {
	var resp transport.SendChatMessageResponse
	if err := c.Call(ctx, MethodSendChatMessage, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Conn) SendFriendMessage(ctx context.Context, req *transport.SendFriendMessageRequest) (*transport.SendFriendMessageResponse, error) {
	var resp transport.SendFriendMessageResponse
	if err := c.Call(ctx, MethodSendFriendMessage, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Conn) GetMyChatRoomGroups(ctx context.Context) (*transport.GetMyChatRoomGroupsResponse, error) {
	var resp transport.GetMyChatRoomGroupsResponse
	if err := c.Call(ctx, MethodGetMyChatRoomGroups, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Conn) JoinChatRoomGroup(ctx context.Context, req *transport.JoinChatRoomGroupRequest) (*transport.JoinChatRoomGroupResponse, error) {
	var resp transport.JoinChatRoomGroupResponse
	if err := c.Call(ctx, MethodJoinChatRoomGroup, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Conn) LeaveChatRoomGroup(ctx context.Context, req *transport.LeaveChatRoomGroupRequest) error {
	return c.Call(ctx, MethodLeaveChatRoomGroup, req, nil)
}

func (c *Conn) GetChatRoomGroupState(ctx context.Context, req *transport.GetChatRoomGroupStateRequest) (*transport.GetChatRoomGroupStateResponse, error) {
	var resp transport.GetChatRoomGroupStateResponse
	if err := c.Call(ctx, MethodGetChatRoomGroupState, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Conn) DeleteChatMessages(ctx context.Context, req *transport.DeleteChatMessagesRequest) (*transport.DeleteChatMessagesResponse, error) {
	var resp transport.DeleteChatMessagesResponse
	if err := c.Call(ctx, MethodDeleteChatMessages, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
