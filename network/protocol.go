package network

// 消息编号。1xx 房间管理，2xx 玩家动作，3xx 服务端通知。
const (
	MsgTypeHeartbeat = 1
	MsgTypeError     = 2

	MsgTypeCreateRoom  = 101
	MsgTypeJoinRoom    = 102
	MsgTypeLeaveRoom   = 103
	MsgTypeGetRooms    = 104
	MsgTypeRoomList    = 105
	MsgTypeRoomJoined  = 106
	MsgTypeRoomPlayers = 107
	MsgTypeGetBoard    = 108
	MsgTypeBoardData   = 109
	MsgTypeStartGame   = 110

	MsgTypeRollDice        = 201
	MsgTypeBuyProperty     = 202
	MsgTypeUpgradeProperty = 203
	MsgTypePayBail         = 204
	MsgTypeEndTurn         = 205

	MsgTypeGameStarted      = 301
	MsgTypeDiceResult       = 302
	MsgTypePlayerMoved      = 303
	MsgTypeMoneyUpdate      = 304
	MsgTypePropertyBought   = 305
	MsgTypePropertyUpgraded = 306
	MsgTypeRentPaid         = 307
	MsgTypeCardDrawn        = 308
	MsgTypeJailEvent        = 309
	MsgTypeTurnChange       = 310
	MsgTypePlayerBankrupt   = 311
	MsgTypeGameOver         = 312
	MsgTypeTimerUpdate      = 313
	MsgTypePurchaseOffer    = 314
	MsgTypeStateSync        = 315
)
