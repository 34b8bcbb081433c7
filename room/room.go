package room

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/state"
	"github.com/wfunc/monopoly/timer"
)

var (
	ErrRoomClosed = errors.New("room closed")
	ErrRoomFull   = errors.New("room is full")
)

// Room 一个对局房间：会话集合 + 生命周期状态机 + 对局引擎 + 回合计时。
// 所有对局修改都经过 actionMutex 串行化，同一房间同一时刻只有
// 一个动作在执行。
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time

	game        *game.Game
	machine     state.StateMachine
	broadcaster Broadcaster
	timers      *timer.Manager
	recorder    GameRecorder
	turnLimit   time.Duration

	hostID   string
	hostName string

	sessions    map[string]*session.Session
	order       []string // 入场顺序，房主离开时顺位接任
	playerMutex sync.RWMutex

	actionMutex sync.Mutex
	turnTask    int64
	turnGen     int64
	deadline    time.Time
	closed      bool

	ticker    *time.Ticker
	closeChan chan struct{}
}

// NewRoom 创建一个 LOBBY 状态的房间并启动心跳循环
func NewRoom(id, name string, turnLimit time.Duration, cfg game.Config,
	broadcaster Broadcaster, timers *timer.Manager, recorder GameRecorder) *Room {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	r := &Room{
		ID:          id,
		Name:        name,
		CreatedAt:   time.Now(),
		broadcaster: broadcaster,
		timers:      timers,
		recorder:    recorder,
		turnLimit:   turnLimit,
		sessions:    make(map[string]*session.Session),
		closeChan:   make(chan struct{}),
	}
	r.game = game.NewGame(cfg, &roomNotifier{room: r})
	r.machine = state.NewBaseStateMachine(state.NewLobbyState(r))

	r.ticker = time.NewTicker(200 * time.Millisecond)
	go r.loop()

	return r
}

// --- state.RoomContext ---

func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) HostID() string {
	return r.hostID
}

func (r *Room) Game() *game.Game {
	return r.game
}

func (r *Room) ChangeState(newState state.State) error {
	return r.machine.ChangeState(newState)
}

// Broadcast 发给房间内全部会话
func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.ID, msgID, data)
}

// ResetTurnTimer 取消旧的回合倒计时并为当前代数重新排一个。
// 回调触发时重新校验房间和代数，过期回调不做任何事。
func (r *Room) ResetTurnTimer() {
	if r.turnTask != 0 {
		r.timers.Cancel(r.turnTask)
		r.turnTask = 0
	}
	if r.game.Status() != game.StatusPlaying {
		return
	}
	gen := r.game.Generation()
	r.turnGen = gen
	r.deadline = time.Now().Add(r.turnLimit)
	r.turnTask = r.timers.Schedule(r.turnLimit, func() {
		r.onTurnTimeout(gen)
	})
}

func (r *Room) StopTurnTimer() {
	if r.turnTask != 0 {
		r.timers.Cancel(r.turnTask)
		r.turnTask = 0
	}
}

func (r *Room) TurnDeadline() time.Time {
	return r.deadline
}

// RecordResult 终局战绩落盘
func (r *Room) RecordResult() {
	r.recorder.SaveGameResult(r.ID, r.game.Snapshot())
}

// onTurnTimeout 倒计时到点：没等到任何动作，强制交接回合。
// 房间可能已经被拆掉，或者回合早已交接，这两种情况都直接返回。
func (r *Room) onTurnTimeout(gen int64) {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()

	if r.closed {
		return
	}
	if r.game.Status() != game.StatusPlaying {
		return
	}
	if r.game.Generation() != gen {
		return
	}
	logger.Log.Infof("room %s: turn timer expired for %s, forcing pass", r.ID, r.game.CurrentPlayerID())
	r.game.ForcePass()
	r.afterAction()
}

// --- 入站动作 ---

// HandleAction 由服务器在收到玩家动作包时调用
func (r *Room) HandleAction(sess *session.Session, msgID uint16, data []byte) error {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if err := r.machine.GetCurrentState().HandleAction(sess, msgID, data); err != nil {
		return err
	}
	r.afterAction()
	return nil
}

// afterAction 动作执行完后的收尾：回合代数变了就重排倒计时，
// 对局结束就切到终局状态。
func (r *Room) afterAction() {
	switch r.game.Status() {
	case game.StatusPlaying:
		if r.game.Generation() != r.turnGen {
			r.ResetTurnTimer()
		}
	case game.StatusFinished:
		if r.machine.GetCurrentState().GetID() != state.StateFinished {
			if err := r.ChangeState(state.NewFinishedState(r)); err != nil {
				logger.Log.Errorf("room %s: failed to enter finished state: %v", r.ID, err)
			}
		}
	}
}

// --- 玩家管理 ---

// AddPlayer 进房。第一个进来的是房主。
func (r *Room) AddPlayer(sess *session.Session, name, avatar string) error {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if err := r.game.AddPlayer(sess.ID, name); err != nil {
		if errors.Is(err, game.ErrGameFull) {
			return ErrRoomFull
		}
		return err
	}
	sess.SetIdentity(name, avatar)
	sess.RoomID = r.ID

	r.playerMutex.Lock()
	r.sessions[sess.ID] = sess
	r.order = append(r.order, sess.ID)
	if r.hostID == "" {
		r.hostID = sess.ID
		r.hostName = name
	}
	r.playerMutex.Unlock()

	r.broadcastPlayers()
	return nil
}

// RemovePlayer 出房（离开或断线）。对局中按对银行破产处理，
// 房主离开则顺位接任。返回 true 表示房间已空，调用方应销毁房间。
func (r *Room) RemovePlayer(sessionID string) bool {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()

	r.playerMutex.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		empty := len(r.sessions) == 0
		r.playerMutex.Unlock()
		return empty
	}
	delete(r.sessions, sessionID)
	sess.RoomID = ""
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.hostID == sessionID && len(r.order) > 0 {
		r.hostID = r.order[0]
		r.hostName = r.sessions[r.hostID].GetName()
	}
	empty := len(r.sessions) == 0
	r.playerMutex.Unlock()

	r.game.RemovePlayer(sessionID)
	if empty {
		return true
	}
	r.broadcastPlayers()
	r.afterAction()
	return false
}

// GetSessions 会话列表的线程安全副本
func (r *Room) GetSessions() []*session.Session {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// PlayerInfo 房间名单里的一个玩家
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	IsHost bool   `json:"isHost"`
}

// Players 按入场顺序返回名单
func (r *Room) Players() []PlayerInfo {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	infos := make([]PlayerInfo, 0, len(r.order))
	for _, id := range r.order {
		s := r.sessions[id]
		infos = append(infos, PlayerInfo{
			ID:     s.ID,
			Name:   s.GetName(),
			Avatar: s.Avatar,
			IsHost: id == r.hostID,
		})
	}
	return infos
}

func (r *Room) broadcastPlayers() {
	data, err := json.Marshal(r.Players())
	if err != nil {
		return
	}
	r.Broadcast(network.MsgTypeRoomPlayers, data)
}

// Status 对局状态的线程安全读取
func (r *Room) Status() game.Status {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()
	return r.game.Status()
}

// Snapshot 对局全量快照，给新进连接或重连同步用
func (r *Room) Snapshot() game.Snapshot {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()
	return r.game.Snapshot()
}

// Info 房间目录里的一行
type Info struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Status string `json:"status"`
	Host   string `json:"host"`
}

func (r *Room) Info() Info {
	// 对局状态归 actionMutex 管，必须在拿 playerMutex 之前读
	status := r.Status()
	r.playerMutex.RLock()
	count := len(r.sessions)
	host := r.hostName
	r.playerMutex.RUnlock()
	return Info{
		ID:     r.ID,
		Name:   r.Name,
		Count:  count,
		Status: string(status),
		Host:   host,
	}
}

// --- 心跳循环 ---

func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

func (r *Room) update() {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()
	if r.closed {
		return
	}
	if current := r.machine.GetCurrentState(); current != nil {
		current.OnUpdate()
	}
}

// Close 关闭房间：取消定时任务，停掉心跳循环
func (r *Room) Close() {
	r.actionMutex.Lock()
	defer r.actionMutex.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.turnTask != 0 {
		r.timers.Cancel(r.turnTask)
		r.turnTask = 0
	}
	close(r.closeChan)
}

// --- game.Notifier 适配 ---

// roomNotifier 把引擎事件翻译成房间消息
type roomNotifier struct {
	room *Room
}

var eventMsgIDs = map[string]uint16{
	game.EvtGameStarted:      network.MsgTypeGameStarted,
	game.EvtDiceResult:       network.MsgTypeDiceResult,
	game.EvtPlayerMoved:      network.MsgTypePlayerMoved,
	game.EvtMoneyUpdate:      network.MsgTypeMoneyUpdate,
	game.EvtPropertyBought:   network.MsgTypePropertyBought,
	game.EvtPropertyUpgraded: network.MsgTypePropertyUpgraded,
	game.EvtRentPaid:         network.MsgTypeRentPaid,
	game.EvtCardDrawn:        network.MsgTypeCardDrawn,
	game.EvtJail:             network.MsgTypeJailEvent,
	game.EvtTurnChange:       network.MsgTypeTurnChange,
	game.EvtPlayerBankrupt:   network.MsgTypePlayerBankrupt,
	game.EvtGameOver:         network.MsgTypeGameOver,
	game.EvtPurchaseOffer:    network.MsgTypePurchaseOffer,
}

func (n *roomNotifier) Broadcast(event string, payload interface{}) {
	msgID, ok := eventMsgIDs[event]
	if !ok {
		logger.Log.Warnf("room %s: no message id for event %s", n.room.ID, event)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("room %s: marshal %s: %v", n.room.ID, event, err)
		return
	}
	n.room.broadcaster.BroadcastToRoom(n.room.ID, msgID, data)
}

func (n *roomNotifier) Target(playerID string, event string, payload interface{}) {
	msgID, ok := eventMsgIDs[event]
	if !ok {
		logger.Log.Warnf("room %s: no message id for event %s", n.room.ID, event)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("room %s: marshal %s: %v", n.room.ID, event, err)
		return
	}
	n.room.broadcaster.SendToSession(playerID, msgID, data)
}
