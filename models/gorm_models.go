package models

import (
	"gorm.io/gorm"
)

// GormPlayerStats 玩家统计表
type GormPlayerStats struct {
	gorm.Model
	Name       string `gorm:"uniqueIndex;not null"`
	TotalGames int    `gorm:"default:0"`
	Wins       int    `gorm:"default:0"`
	Losses     int    `gorm:"default:0"`
	BestCash   int    `gorm:"default:0"`
}

// GormGameRecord 对局记录表，玩家明细整体存 jsonb
type GormGameRecord struct {
	gorm.Model
	RoomID  string `gorm:"index;not null"`
	Winner  string `gorm:"not null"`
	Players string `gorm:"type:jsonb;not null"`
}

// GormRoomState 房间状态快照表
type GormRoomState struct {
	gorm.Model
	RoomID   string `gorm:"uniqueIndex;not null"`
	Status   string `gorm:"not null"`
	Snapshot string `gorm:"type:jsonb"`
}
