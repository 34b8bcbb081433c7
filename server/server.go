package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/broadcast"
	"github.com/wfunc/monopoly/config"
	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/monitor"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/persistence"
	"github.com/wfunc/monopoly/room"
	monopoly_rpc "github.com/wfunc/monopoly/rpc"
	"github.com/wfunc/monopoly/services"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/timer"
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	playerService  *services.PlayerService
	broadcaster    broadcast.Broadcaster
	timers         *timer.Manager
	monitor        *monitor.Monitor
	rpcServer      *monopoly_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		roomManager:    room.NewManager(),
		sessionManager: session.NewManager(),
		playerService:  services.NewPlayerService(db),
		timers:         timer.NewManager(),
		monitor:        monitor.NewMonitor("monopoly"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	rpcServer, err := monopoly_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	statsService := monopoly_rpc.NewStatsService(s.playerService)
	if err := statsService.Register(); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MonitorAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.leaveRoom(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(sess)
	case network.MsgTypeGetRooms:
		s.handleGetRooms(sess)
	case network.MsgTypeGetBoard:
		s.handleGetBoard(sess)
	case network.MsgTypeStartGame,
		network.MsgTypeRollDice,
		network.MsgTypeBuyProperty,
		network.MsgTypeUpgradeProperty,
		network.MsgTypePayBail,
		network.MsgTypeEndTurn:
		s.handleGameAction(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

// identityRequest 进房时客户端上报的身份
type identityRequest struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	RoomName string `json:"roomName"`
	RoomID   string `json:"roomId"`
}

// joinedReply 进房成功的回执
type joinedReply struct {
	RoomID       string `json:"roomId"`
	PlayerID     string `json:"playerId"`
	IsHost       bool   `json:"isHost"`
	BoardVersion int    `json:"boardVersion"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req identityRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "invalid request")
		return
	}
	if req.Nickname == "" {
		s.sendError(sess, "nickname required")
		return
	}
	if sess.RoomID != "" {
		s.sendError(sess, "already in a room")
		return
	}

	name := req.RoomName
	if name == "" {
		name = req.Nickname + "'s game"
	}

	r := s.roomManager.CreateRoom(name, s.cfg.Game.TurnDuration(), s.gameConfig(),
		s.broadcaster, s.timers, s.playerService)
	if err := r.AddPlayer(sess, req.Nickname, req.Avatar); err != nil {
		s.roomManager.RemoveRoom(r.ID)
		s.sendError(sess, err.Error())
		return
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Session %s created room %s", sess.GetID(), r.ID)
	s.sendJoined(sess, r)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req identityRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "invalid request")
		return
	}
	if req.Nickname == "" {
		s.sendError(sess, "nickname required")
		return
	}
	if sess.RoomID != "" {
		s.sendError(sess, "already in a room")
		return
	}

	r, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		s.sendError(sess, "room not found")
		return
	}
	if err := r.AddPlayer(sess, req.Nickname, req.Avatar); err != nil {
		s.sendError(sess, err.Error())
		return
	}

	logger.Log.Infof("Session %s joined room %s", sess.GetID(), r.ID)
	s.sendJoined(sess, r)
	s.sendStateSync(sess, r)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session) {
	if sess.RoomID == "" {
		s.sendError(sess, "not in a room")
		return
	}
	s.leaveRoom(sess)
}

// leaveRoom 出房公共路径，断线也走这里。房间空了就拆掉。
func (s *GameServer) leaveRoom(sess *session.Session) {
	if sess.RoomID == "" {
		return
	}
	roomID := sess.RoomID
	r, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		sess.RoomID = ""
		return
	}
	wasFinished := r.Status() == game.StatusFinished
	if empty := r.RemovePlayer(sess.GetID()); empty {
		s.roomManager.RemoveRoom(roomID)
		logger.Log.Infof("Room %s is empty, removed", roomID)
	} else if !wasFinished && r.Status() == game.StatusFinished {
		s.monitor.IncGamesFinished()
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())
}

func (s *GameServer) handleGetRooms(sess *session.Session) {
	data, err := json.Marshal(s.roomManager.List())
	if err != nil {
		s.sendError(sess, "internal error")
		return
	}
	sess.Send(network.MsgTypeRoomList, data)
}

// boardReply 棋盘静态数据，客户端按 Version 缓存
type boardReply struct {
	Version int          `json:"version"`
	Tiles   []board.Tile `json:"tiles"`
	Chance  []board.Card `json:"chance"`
	Chest   []board.Card `json:"chest"`
}

func boardPayload() boardReply {
	return boardReply{
		Version: board.Version,
		Tiles:   board.Tiles(),
		Chance:  board.Deck(board.DeckChance),
		Chest:   board.Deck(board.DeckChest),
	}
}

func (s *GameServer) handleGetBoard(sess *session.Session) {
	data, err := json.Marshal(boardPayload())
	if err != nil {
		s.sendError(sess, "internal error")
		return
	}
	sess.Send(network.MsgTypeBoardData, data)
}

func (s *GameServer) handleGameAction(sess *session.Session, packet *network.Packet) {
	if sess.RoomID == "" {
		s.sendError(sess, "not in a room")
		return
	}
	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		s.sendError(sess, "room not found")
		return
	}

	s.monitor.IncActionsReceived()
	wasFinished := r.Status() == game.StatusFinished
	start := time.Now()
	err := r.HandleAction(sess, packet.MsgID, packet.Data)
	s.monitor.ObserveActionLatency(time.Since(start))

	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	if !wasFinished && r.Status() == game.StatusFinished {
		s.monitor.IncGamesFinished()
	}
}

func (s *GameServer) sendJoined(sess *session.Session, r *room.Room) {
	reply := joinedReply{
		RoomID:       r.ID,
		PlayerID:     sess.GetID(),
		IsHost:       r.HostID() == sess.GetID(),
		BoardVersion: board.Version,
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	sess.Send(network.MsgTypeRoomJoined, data)
}

// sendStateSync 给刚进房的连接发全量快照
func (s *GameServer) sendStateSync(sess *session.Session, r *room.Room) {
	data, err := json.Marshal(r.Snapshot())
	if err != nil {
		return
	}
	sess.Send(network.MsgTypeStateSync, data)
}

func (s *GameServer) sendError(sess *session.Session, msg string) {
	data, _ := json.Marshal(map[string]string{"error": msg})
	sess.Send(network.MsgTypeError, data)
}

func (s *GameServer) gameConfig() game.Config {
	return game.Config{
		StartingCash:        s.cfg.Game.StartingCash,
		PassGoBonus:         s.cfg.Game.PassGoBonus,
		BailAmount:          s.cfg.Game.BailAmount,
		UtilityMultiplier:   s.cfg.Game.UtilityMultiplier,
		MinPlayers:          s.cfg.Game.MinPlayers,
		MaxPlayers:          s.cfg.Game.MaxPlayers,
		TripleDoublesToJail: s.cfg.Game.TripleDoublesToJail,
	}
}
