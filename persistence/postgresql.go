package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/wfunc/monopoly/models"
)

// PostgreSQL 原生 database/sql 实现，不依赖 ORM。
// 和 GormPostgreSQL 二选一，默认走 GORM。
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建PostgreSQL数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	p := &PostgreSQL{db: db}
	if err := p.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgreSQL) initTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS player_stats (
			id SERIAL PRIMARY KEY,
			name VARCHAR(64) UNIQUE NOT NULL,
			total_games INT DEFAULT 0,
			wins INT DEFAULT 0,
			losses INT DEFAULT 0,
			best_cash INT DEFAULT 0,
			updated_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS game_records (
			id SERIAL PRIMARY KEY,
			room_id VARCHAR(16) NOT NULL,
			winner VARCHAR(64) NOT NULL,
			players JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_records_room ON game_records(room_id)`,
		`CREATE TABLE IF NOT EXISTS room_states (
			id SERIAL PRIMARY KEY,
			room_id VARCHAR(16) UNIQUE NOT NULL,
			status VARCHAR(16) NOT NULL,
			snapshot JSONB,
			updated_at TIMESTAMP DEFAULT NOW()
		)`,
	}

	for _, q := range queries {
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SaveGameRecord 保存对局记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO game_records (room_id, winner, players) VALUES ($1, $2, $3)`,
		record.RoomID, record.Winner, players)
	return err
}

// RecordPlayerResult 累计玩家统计，靠 ON CONFLICT 做 upsert
func (p *PostgreSQL) RecordPlayerResult(result models.PlayerResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wins := 0
	losses := 1
	if result.Outcome == "win" {
		wins = 1
		losses = 0
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO player_stats (name, total_games, wins, losses, best_cash, updated_at)
		VALUES ($1, 1, $2, $3, $4, NOW())
		ON CONFLICT (name) DO UPDATE SET
			total_games = player_stats.total_games + 1,
			wins = player_stats.wins + $2,
			losses = player_stats.losses + $3,
			best_cash = GREATEST(player_stats.best_cash, $4),
			updated_at = NOW()`,
		result.Name, wins, losses, result.Money)
	return err
}

// GetPlayerStats 按昵称查统计
func (p *PostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.PlayerStats{}
	err := p.db.QueryRowContext(ctx,
		`SELECT name, total_games, wins, losses, best_cash FROM player_stats WHERE name = $1`,
		name).Scan(&stats.Name, &stats.TotalGames, &stats.Wins, &stats.Losses, &stats.BestCash)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveRoomState 保存房间快照
func (p *PostgreSQL) SaveRoomState(roomID, status string, snapshot interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO room_states (room_id, status, snapshot, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (room_id) DO UPDATE SET
			status = $2, snapshot = $3, updated_at = NOW()`,
		roomID, status, data)
	return err
}

// LoadRoomState 读房间快照
func (p *PostgreSQL) LoadRoomState(roomID string, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT snapshot FROM room_states WHERE room_id = $1`, roomID).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrRecordNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
