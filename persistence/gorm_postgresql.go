package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/monopoly/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormPlayerStats{},
		&models.GormGameRecord{},
		&models.GormRoomState{},
	)
}

// SaveGameRecord 保存对局记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}
	row := models.GormGameRecord{
		RoomID:  record.RoomID,
		Winner:  record.Winner,
		Players: string(players),
	}
	return p.db.Create(&row).Error
}

// RecordPlayerResult 累计单个玩家的统计，整个更新在一个事务里
func (p *GormPostgreSQL) RecordPlayerResult(result models.PlayerResult) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var stats models.GormPlayerStats
		err := tx.Where("name = ?", result.Name).First(&stats).Error
		if err == gorm.ErrRecordNotFound {
			stats = models.GormPlayerStats{Name: result.Name}
		} else if err != nil {
			return err
		}

		stats.TotalGames++
		if result.Outcome == "win" {
			stats.Wins++
		} else {
			stats.Losses++
		}
		if result.Money > stats.BestCash {
			stats.BestCash = result.Money
		}
		return tx.Save(&stats).Error
	})
}

// GetPlayerStats 按昵称查统计
func (p *GormPostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	var stats models.GormPlayerStats
	if err := p.db.Where("name = ?", name).First(&stats).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &models.PlayerStats{
		Name:       stats.Name,
		TotalGames: stats.TotalGames,
		Wins:       stats.Wins,
		Losses:     stats.Losses,
		BestCash:   stats.BestCash,
	}, nil
}

// SaveRoomState 保存房间快照，同房间覆盖
func (p *GormPostgreSQL) SaveRoomState(roomID, status string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	var row models.GormRoomState
	result := p.db.Where("room_id = ?", roomID).First(&row)

	if result.Error == gorm.ErrRecordNotFound {
		row = models.GormRoomState{
			RoomID:   roomID,
			Status:   status,
			Snapshot: string(data),
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Status = status
	row.Snapshot = string(data)
	return p.db.Save(&row).Error
}

// LoadRoomState 读房间快照
func (p *GormPostgreSQL) LoadRoomState(roomID string, result interface{}) error {
	var row models.GormRoomState
	if err := p.db.Where("room_id = ?", roomID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecordNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(row.Snapshot), result)
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
