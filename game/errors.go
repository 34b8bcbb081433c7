package game

import "errors"

// 前置条件错误。这些只会回发给请求者本人，不改动任何状态。
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotPlaying        = errors.New("game is not in progress")
	ErrGameFinished      = errors.New("game already finished")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrTooFewPlayers     = errors.New("not enough players")
	ErrGameFull          = errors.New("game is full")
	ErrDuplicatePlayer   = errors.New("player already joined")
	ErrDecisionPending   = errors.New("a purchase decision is pending")
	ErrNoPendingPurchase = errors.New("no purchase offer pending")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTileOwned         = errors.New("tile already owned")
	ErrNotOwner          = errors.New("tile not owned by player")
	ErrNotImprovable     = errors.New("tile cannot be improved")
	ErrNoMonopoly        = errors.New("player does not own the full group")
	ErrMaxImprovement    = errors.New("tile already at maximum improvement")
	ErrNotJailed         = errors.New("player is not in jail")
)
