package state

import (
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/network"
)

// LobbyState 等待开局。玩家陆续加入，房主发起开始。
// 大富翁不自动开局，人满也要等房主点开始。
type LobbyState struct {
	RoomStateBase
}

func NewLobbyState(room RoomContext) *LobbyState {
	return &LobbyState{
		RoomStateBase: RoomStateBase{
			ID:   StateLobby,
			Room: room,
		},
	}
}

func (s *LobbyState) HandleAction(player Player, msgID uint16, data []byte) error {
	switch msgID {
	case network.MsgTypeStartGame:
		if player.GetID() != s.Room.HostID() {
			return ErrNotHost
		}
		if err := s.Room.Game().Start(); err != nil {
			return err
		}
		logger.Log.Infof("room %s started by %s with %d players",
			s.Room.GetID(), player.GetName(), s.Room.Game().PlayerCount())
		return s.Room.ChangeState(NewPlayingState(s.Room))
	default:
		return ErrActionNotAllowed
	}
}
