package models

import (
	"time"
)

// PlayerResult 终局时单个玩家的战绩
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Money    int    `json:"money"`
	Tiles    []int  `json:"tiles"`
	Bankrupt bool   `json:"bankrupt"`
	Outcome  string `json:"outcome"` // win/lose
}

// GameRecord 一局完整对局的记录
type GameRecord struct {
	RoomID    string         `json:"room_id"`
	Winner    string         `json:"winner"`
	Players   []PlayerResult `json:"players"`
	CreatedAt time.Time      `json:"created_at"`
}

// PlayerStats 按昵称累计的玩家统计
type PlayerStats struct {
	Name       string `json:"name"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	BestCash   int    `json:"best_cash"` // 单局终局现金最高纪录
}
