package room

import "github.com/wfunc/monopoly/game"

// Broadcaster 房间消息出口。定义在这里以打破 room 和 broadcast
// 的循环引用。
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	SendToSession(sessionID string, msgID uint16, data []byte) error
}

// GameRecorder 终局战绩落盘。持久化失败不影响对局，所以不返回错误。
type GameRecorder interface {
	SaveGameResult(roomID string, snapshot game.Snapshot)
}

// NopRecorder 测试和无库运行用
type NopRecorder struct{}

func (NopRecorder) SaveGameResult(roomID string, snapshot game.Snapshot) {}
