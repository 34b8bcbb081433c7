package persistence

import (
	"errors"

	"github.com/wfunc/monopoly/models"
)

// Database 数据库接口。对局本身完全在内存里跑，
// 落库只有战绩、统计和房间快照三类。
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	RecordPlayerResult(result models.PlayerResult) error
	GetPlayerStats(name string) (*models.PlayerStats, error)
	SaveRoomState(roomID, status string, snapshot interface{}) error
	LoadRoomState(roomID string, result interface{}) error
	Close() error
}

var ErrRecordNotFound = errors.New("record not found")
