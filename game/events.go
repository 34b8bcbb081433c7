package game

import (
	"github.com/wfunc/monopoly/board"
)

// Notifier 把引擎产生的事件交给传输层。Broadcast 发给整个房间，
// Target 只发给单个玩家（买地报价、错误提示）。引擎不关心消息编号
// 和封包格式，这些由 room/broadcast 层决定。
type Notifier interface {
	Broadcast(event string, payload interface{})
	Target(playerID string, event string, payload interface{})
}

// 事件名，传输层据此映射到消息ID
const (
	EvtGameStarted      = "gameStarted"
	EvtDiceResult       = "diceResult"
	EvtPlayerMoved      = "playerMoved"
	EvtMoneyUpdate      = "moneyUpdate"
	EvtPropertyBought   = "propertyBought"
	EvtPropertyUpgraded = "propertyUpgraded"
	EvtRentPaid         = "rentPaid"
	EvtCardDrawn        = "cardDrawn"
	EvtJail             = "jailEvent"
	EvtTurnChange       = "turnChange"
	EvtPlayerBankrupt   = "playerBankrupt"
	EvtGameOver         = "gameOver"
	EvtPurchaseOffer    = "purchaseOffer"
)

type GameStartedEvent struct {
	Players     []PlayerView `json:"players"`
	CurrentTurn string       `json:"currentTurn"`
}

type DiceResultEvent struct {
	PlayerID string `json:"playerId"`
	Die1     int    `json:"die1"`
	Die2     int    `json:"die2"`
	Total    int    `json:"total"`
}

type PlayerMovedEvent struct {
	PlayerID string `json:"playerId"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	PassedGo bool   `json:"passedGo"`
}

type MoneyUpdateEvent struct {
	PlayerID string `json:"playerId"`
	Money    int    `json:"money"`
}

type PropertyBoughtEvent struct {
	PlayerID string `json:"playerId"`
	Tile     int    `json:"tile"`
	Price    int    `json:"price"`
	Money    int    `json:"money"`
}

type PropertyUpgradedEvent struct {
	PlayerID string `json:"playerId"`
	Tile     int    `json:"tile"`
	Level    int    `json:"level"`
	Money    int    `json:"money"`
}

type RentPaidEvent struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Tile   int    `json:"tile"`
	Amount int    `json:"amount"`
}

type CardDrawnEvent struct {
	PlayerID string     `json:"playerId"`
	Deck     string     `json:"deck"`
	Card     board.Card `json:"card"`
}

// 入狱/出狱原因
const (
	JailReasonTile          = "tile"
	JailReasonCard          = "card"
	JailReasonTripleDoubles = "tripleDoubles"
	JailReasonHeld          = "held"
	JailReasonDoubles       = "doubles"
	JailReasonBail          = "bail"
	JailReasonForcedBail    = "forcedBail"
)

type JailEvent struct {
	PlayerID string `json:"playerId"`
	Entered  bool   `json:"entered"`
	Reason   string `json:"reason"`
	Rounds   int    `json:"rounds"`
}

type TurnChangeEvent struct {
	PlayerID string `json:"playerId"`
}

type PlayerBankruptEvent struct {
	PlayerID   string `json:"playerId"`
	CreditorID string `json:"creditorId,omitempty"`
}

type GameOverEvent struct {
	WinnerID string `json:"winnerId"`
}

type PurchaseOfferEvent struct {
	Tile  int    `json:"tile"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// NopNotifier 丢弃所有事件，测试用
type NopNotifier struct{}

func (NopNotifier) Broadcast(event string, payload interface{}) {}

func (NopNotifier) Target(playerID string, event string, payload interface{}) {}
