package broadcast

import (
	"errors"

	"github.com/wfunc/monopoly/room"
	"github.com/wfunc/monopoly/session"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Broadcaster 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	SendToSession(sessionID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
}

// RoomBroadcaster 基于房间/会话管理器的广播器
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, s := range r.GetSessions() {
		if err := s.Send(msgID, data); err != nil {
			// 发送失败的连接由读循环负责清理
			continue
		}
	}
	return nil
}

// SendToSession 定向消息：买地报价、错误提示只发给当事人
func (b *RoomBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(msgID, data)
}

// BroadcastToAll 发给所有在线房间，房间目录变化时用
func (b *RoomBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, info := range b.roomManager.List() {
		b.BroadcastToRoom(info.ID, msgID, data)
	}
	return nil
}
