package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

var testUpgrader = websocket.Upgrader{}

// newServer runs a minimal frame-speaking endpoint and returns its ws
// URL. handle is called once per request frame.
func newServer(t *testing.T, handle func(ws *websocket.Conn, f *Frame)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var f Frame
			if err := json.Unmarshal(payload, &f); err != nil {
				return
			}
			handle(ws, &f)
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func respond(ws *websocket.Conn, id uint64, body any) {
	b, _ := json.Marshal(body)
	_ = ws.WriteJSON(&Frame{Type: frameResponse, ID: id, Code: int32(transport.ResultOK), Body: b})
}

func dialTest(t *testing.T, addr string) *Conn {
	t.Helper()
	c, err := Dial(context.Background(), addr, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCallRoundTrip(t *testing.T) {
	ordinal := uint32(4)
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {
		if f.Method != MethodSendChatMessage {
			return
		}
		var req transport.SendChatMessageRequest
		if err := json.Unmarshal(f.Body, &req); err != nil {
			return
		}
		respond(ws, f.ID, &transport.SendChatMessageResponse{
			ModifiedMessage: req.Message,
			ServerTimestamp: 1700000000,
			Ordinal:         &ordinal,
		})
	})

	c := dialTest(t, addr)
	resp, err := c.SendChatMessage(context.Background(), &transport.SendChatMessageRequest{
		ChatGroupID: 1, ChatID: 2, Message: "hi", EchoToSender: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.ModifiedMessage)
	require.NotNil(t, resp.Ordinal)
	assert.Equal(t, uint32(4), *resp.Ordinal)
}

func TestCallServiceError(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {
		_ = ws.WriteJSON(&Frame{
			Type:  frameResponse,
			ID:    f.ID,
			Code:  int32(transport.ResultRateLimitExceeded),
			Error: "slow down",
		})
	})

	c := dialTest(t, addr)
	_, err := c.SendChatMessage(context.Background(), &transport.SendChatMessageRequest{Message: "hi"})
	require.Error(t, err)

	var terr *transport.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, transport.ResultRateLimitExceeded, terr.Code)
	assert.Equal(t, MethodSendChatMessage, terr.Op)
	assert.Contains(t, err.Error(), "slow down")
}

func TestCallTimeout(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {
		// Never respond.
	})

	c := dialTest(t, addr)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SendChatMessage(ctx, &transport.SendChatMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestNotificationFanOut(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {
		// Push a notification before answering, so by the time the
		// call returns the notification has been dispatched.
		body, _ := json.Marshal(&transport.IncomingChatMessage{
			ChatGroupID: 7, ChatID: 8, Message: "broadcast", Ordinal: 2,
		})
		_ = ws.WriteJSON(&Frame{Type: frameNotification, Method: NotifyIncomingChatMessage, Body: body})
		respond(ws, f.ID, &transport.GetMyChatRoomGroupsResponse{})
	})

	c := dialTest(t, addr)

	s1, err := c.SubscribeGroupMessages()
	require.NoError(t, err)
	s2, err := c.SubscribeGroupMessages()
	require.NoError(t, err)

	_, err = c.GetMyChatRoomGroups(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, s := range []transport.GroupMessageStream{s1, s2} {
		n, err := s.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), n.ChatGroupID)
		assert.Equal(t, "broadcast", n.Message)
	}
}

func TestClosedStreamEnds(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {})

	c := dialTest(t, addr)
	s, err := c.SubscribeGroupMessages()
	require.NoError(t, err)

	require.NoError(t, c.Close())

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, transport.ErrClosed)

	// The handle is dead for calls too.
	_, err = c.SendChatMessage(context.Background(), &transport.SendChatMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, transport.ErrClosed)

	// And new subscriptions are refused.
	_, err = c.SubscribeGroupMessages()
	assert.ErrorIs(t, err, transport.ErrClosed)
}

func TestStreamCloseIsClean(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {})

	c := dialTest(t, addr)
	s, err := c.SubscribeGroupMessages()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, transport.ErrStreamEnded)
}

func TestFriendNotification(t *testing.T) {
	addr := newServer(t, func(ws *websocket.Conn, f *Frame) {
		body, _ := json.Marshal(&transport.IncomingFriendMessage{
			SenderID: 76561199491325083, Message: "yo", ChatEntryType: 1,
		})
		_ = ws.WriteJSON(&Frame{Type: frameNotification, Method: NotifyIncomingFriendMessage, Body: body})
		respond(ws, f.ID, &transport.GetMyChatRoomGroupsResponse{})
	})

	c := dialTest(t, addr)
	s, err := c.SubscribeFriendMessages()
	require.NoError(t, err)

	_, err = c.GetMyChatRoomGroups(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	n, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "yo", n.Message)
	assert.Equal(t, int32(1), n.ChatEntryType)
}
