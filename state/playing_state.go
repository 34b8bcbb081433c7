package state

import (
	"encoding/json"
	"time"

	"github.com/wfunc/monopoly/network"
)

// PlayingState 对局进行中。入站动作交给引擎校验执行，
// 回合倒计时由房间定时器驱动，这里只负责每秒同步剩余时间。
type PlayingState struct {
	RoomStateBase
	lastTick int
}

func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   StatePlaying,
			Room: room,
		},
		lastTick: -1,
	}
}

func (s *PlayingState) OnEnter() {
	s.Room.ResetTurnTimer()
}

func (s *PlayingState) OnExit() {
	s.Room.StopTurnTimer()
}

// TimerUpdateEvent 剩余秒数同步
type TimerUpdateEvent struct {
	PlayerID  string `json:"playerId"`
	Remaining int    `json:"remaining"`
}

func (s *PlayingState) OnUpdate() {
	remaining := int(time.Until(s.Room.TurnDeadline()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	if remaining == s.lastTick {
		return
	}
	s.lastTick = remaining

	data, err := json.Marshal(TimerUpdateEvent{
		PlayerID:  s.Room.Game().CurrentPlayerID(),
		Remaining: remaining,
	})
	if err != nil {
		return
	}
	s.Room.Broadcast(network.MsgTypeTimerUpdate, data)
}

type upgradeRequest struct {
	Tile int `json:"tile"`
}

func (s *PlayingState) HandleAction(player Player, msgID uint16, data []byte) error {
	g := s.Room.Game()
	actorID := player.GetID()

	switch msgID {
	case network.MsgTypeRollDice:
		return g.RollDice(actorID)
	case network.MsgTypeBuyProperty:
		return g.BuyProperty(actorID)
	case network.MsgTypeUpgradeProperty:
		var req upgradeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return err
		}
		return g.Upgrade(actorID, req.Tile)
	case network.MsgTypePayBail:
		return g.PayBail(actorID)
	case network.MsgTypeEndTurn:
		return g.EndTurn(actorID)
	default:
		return ErrActionNotAllowed
	}
}
