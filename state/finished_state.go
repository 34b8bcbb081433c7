package state

import (
	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
)

// FinishedState 终局。落盘战绩，之后拒绝一切修改动作。
type FinishedState struct {
	RoomStateBase
}

func NewFinishedState(room RoomContext) *FinishedState {
	return &FinishedState{
		RoomStateBase: RoomStateBase{
			ID:   StateFinished,
			Room: room,
		},
	}
}

func (s *FinishedState) OnEnter() {
	s.Room.StopTurnTimer()
	logger.Log.Infof("room %s finished, winner %s", s.Room.GetID(), s.Room.Game().Winner())
	s.Room.RecordResult()
}

func (s *FinishedState) HandleAction(player Player, msgID uint16, data []byte) error {
	return game.ErrGameFinished
}
