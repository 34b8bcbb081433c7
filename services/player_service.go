// services/player_service.go
package services

import (
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/persistence"
)

type PlayerService struct {
	db persistence.Database
}

func NewPlayerService(db persistence.Database) *PlayerService {
	return &PlayerService{db: db}
}

// SaveGameResult 终局落盘：对局记录一条，外加每个玩家的累计统计。
// 持久化失败只记日志，不往上抛，对局流程不受影响。
func (s *PlayerService) SaveGameResult(roomID string, snap game.Snapshot) {
	if s.db == nil {
		return
	}

	record := &models.GameRecord{
		RoomID:    roomID,
		Winner:    snap.Winner,
		CreatedAt: time.Now(),
	}
	for _, pv := range snap.Players {
		outcome := "lose"
		if pv.ID == snap.Winner {
			outcome = "win"
		}
		record.Players = append(record.Players, models.PlayerResult{
			PlayerID: pv.ID,
			Name:     pv.Name,
			Money:    pv.Money,
			Tiles:    pv.Owned,
			Bankrupt: pv.Bankrupt,
			Outcome:  outcome,
		})
	}

	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to save game record for room %s: %v", roomID, err)
	}

	for _, pr := range record.Players {
		if err := s.db.RecordPlayerResult(pr); err != nil {
			logger.Log.Errorf("Failed to record stats for player %s: %v", pr.Name, err)
		}
	}

	if err := s.db.SaveRoomState(roomID, string(snap.Status), snap); err != nil {
		logger.Log.Errorf("Failed to save final room state for %s: %v", roomID, err)
	}
}

// GetPlayerWithStats 按昵称取累计统计
func (s *PlayerService) GetPlayerWithStats(name string) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(name)
}

// LoadRoomSnapshot 读已落盘的房间终局快照，给管理端查询用
func (s *PlayerService) LoadRoomSnapshot(roomID string) (*game.Snapshot, error) {
	var snap game.Snapshot
	if err := s.db.LoadRoomState(roomID, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
