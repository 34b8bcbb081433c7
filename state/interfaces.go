package state

import (
	"time"

	"github.com/wfunc/monopoly/game"
)

// Player 状态层只需要玩家的身份信息
type Player interface {
	GetID() string
	GetName() string
}

// RoomContext 房间必须实现的接口，供各生命周期状态回调。
// 定义在这里是为了打破 room 和 state 的循环引用。
type RoomContext interface {
	GetID() string
	HostID() string
	Game() *game.Game
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error
	ResetTurnTimer()
	StopTurnTimer()
	TurnDeadline() time.Time
	RecordResult()
}
