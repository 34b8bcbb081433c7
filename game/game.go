package game

import (
	"math/rand"
	"time"

	"github.com/wfunc/monopoly/board"
)

// Status 对局生命周期
type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

// TurnPhase 当前行动者的回合子状态。AwaitingDecision 表示有一个
// 买地报价等待答复，在答复前回合不会自动交接。
type TurnPhase string

const (
	PhaseAwaitRoll     TurnPhase = "AWAITING_ROLL"
	PhaseAwaitDecision TurnPhase = "AWAITING_DECISION"
)

// FallbackDiceBasis 没有骰子点数可用时（卡片移动触发的公用事业租金）
// 使用的基数，取两颗骰子的期望值。
const FallbackDiceBasis = 7

// Config 经济调节参数。不同变体的取值不同，全部由外层配置注入。
type Config struct {
	StartingCash        int
	PassGoBonus         int
	BailAmount          int
	UtilityMultiplier   int
	MinPlayers          int
	MaxPlayers          int
	TripleDoublesToJail bool
}

// DefaultConfig 经典参数
func DefaultConfig() Config {
	return Config{
		StartingCash:        1500,
		PassGoBonus:         200,
		BailAmount:          50,
		UtilityMultiplier:   4,
		MinPlayers:          2,
		MaxPlayers:          6,
		TripleDoublesToJail: true,
	}
}

// 开局时按入座顺序分配的棋子颜色
var playerColors = []string{"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6", "#1abc9c"}

// Game 单个房间的对局状态机。所有方法都不是并发安全的：
// 房间层保证同一时刻只有一个动作在执行。
type Game struct {
	cfg      Config
	notifier Notifier

	players      []*Player
	ownership    map[int]string // tile -> player id，不存在表示银行所有
	improvements map[int]int    // tile -> 0..5

	status     Status
	current    int
	phase      TurnPhase
	generation int64 // 每次回合交接或获得加掷时 +1，用于识别过期的定时回调

	doublesStreak int
	pendingTile   int  // 待答复的买地报价所在格，-1 表示没有
	extraRoll     bool // 答复报价后是否还欠一次双数加掷
	winner        string

	rng  *rand.Rand
	dice func() (int, int)
	draw func(n int) int
}

// NewGame 创建一个处于 LOBBY 状态的对局
func NewGame(cfg Config, notifier Notifier) *Game {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := &Game{
		cfg:          cfg,
		notifier:     notifier,
		ownership:    make(map[int]string),
		improvements: make(map[int]int),
		status:       StatusLobby,
		phase:        PhaseAwaitRoll,
		pendingTile:  -1,
		rng:          rng,
	}
	g.dice = func() (int, int) { return g.rng.Intn(6) + 1, g.rng.Intn(6) + 1 }
	g.draw = func(n int) int { return g.rng.Intn(n) }
	return g
}

// SetDice 注入骰子来源，测试用
func (g *Game) SetDice(fn func() (int, int)) { g.dice = fn }

// SetDraw 注入抽牌下标来源，测试用
func (g *Game) SetDraw(fn func(n int) int) { g.draw = fn }

// AddPlayer 在 LOBBY 阶段加入玩家，顺序即回合顺序
func (g *Game) AddPlayer(id, name string) error {
	if g.status != StatusLobby {
		return ErrAlreadyStarted
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrGameFull
	}
	if g.playerByID(id) != nil {
		return ErrDuplicatePlayer
	}
	g.players = append(g.players, &Player{ID: id, Name: name})
	return nil
}

// Start 开局：发钱、归零位置、分配颜色，回合指针指向第一个玩家
func (g *Game) Start() error {
	if g.status != StatusLobby {
		return ErrAlreadyStarted
	}
	if len(g.players) < g.cfg.MinPlayers {
		return ErrTooFewPlayers
	}
	for i, p := range g.players {
		p.Cash = g.cfg.StartingCash
		p.Position = 0
		p.Color = playerColors[i%len(playerColors)]
		p.Owned = nil
		p.Jailed = false
		p.JailRounds = 0
		p.Bankrupt = false
	}
	g.status = StatusPlaying
	g.current = 0
	g.phase = PhaseAwaitRoll
	g.generation = 1
	g.notifier.Broadcast(EvtGameStarted, GameStartedEvent{
		Players:     g.playerViews(),
		CurrentTurn: g.players[0].ID,
	})
	return nil
}

// RemovePlayer 处理断线。LOBBY 阶段直接移除；PLAYING 阶段按
// 对银行破产处理，资产回到银行，轮到他时回合立即交接。
func (g *Game) RemovePlayer(id string) {
	switch g.status {
	case StatusLobby:
		for i, p := range g.players {
			if p.ID == id {
				g.players = append(g.players[:i], g.players[i+1:]...)
				return
			}
		}
	case StatusPlaying:
		p := g.playerByID(id)
		if p == nil || p.Bankrupt {
			return
		}
		wasCurrent := g.players[g.current] == p
		g.resolveBankruptcy(p, nil)
		if g.status == StatusPlaying && wasCurrent {
			g.advanceTurn()
		}
	}
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// requireActor 回合归属检查：只接受当前行动者的指令
func (g *Game) requireActor(id string) (*Player, error) {
	switch g.status {
	case StatusFinished:
		return nil, ErrGameFinished
	case StatusPlaying:
	default:
		return nil, ErrNotPlaying
	}
	p := g.players[g.current]
	if p.ID != id {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// advanceTurn 回合交接：向前循环扫描，跳过破产玩家
func (g *Game) advanceTurn() {
	if g.status != StatusPlaying {
		return
	}
	g.pendingTile = -1
	g.extraRoll = false
	g.doublesStreak = 0
	n := len(g.players)
	for i := 1; i <= n; i++ {
		idx := (g.current + i) % n
		if !g.players[idx].Bankrupt {
			g.current = idx
			break
		}
	}
	g.phase = PhaseAwaitRoll
	g.generation++
	g.notifier.Broadcast(EvtTurnChange, TurnChangeEvent{PlayerID: g.players[g.current].ID})
}

// moveBy 按步数移动，处理过起点奖励和直接入狱格。
// 返回 true 表示落到了入狱格，后续不再结算格子效果。
func (g *Game) moveBy(p *Player, steps int) bool {
	old := p.Position
	p.Position = (old + steps) % board.Size
	passedGo := p.Position < old
	if passedGo {
		p.Cash += g.cfg.PassGoBonus
	}
	g.notifier.Broadcast(EvtPlayerMoved, PlayerMovedEvent{
		PlayerID: p.ID,
		From:     old,
		To:       p.Position,
		PassedGo: passedGo,
	})
	if passedGo {
		g.notifyMoney(p)
	}
	if p.Position == board.GoToJailIndex {
		g.sendToJail(p, JailReasonTile)
		return true
	}
	return false
}

func (g *Game) sendToJail(p *Player, reason string) {
	p.Position = board.JailIndex
	p.Jailed = true
	p.JailRounds = 0
	g.notifier.Broadcast(EvtJail, JailEvent{PlayerID: p.ID, Entered: true, Reason: reason})
}

func (g *Game) notifyMoney(p *Player) {
	g.notifier.Broadcast(EvtMoneyUpdate, MoneyUpdateEvent{PlayerID: p.ID, Money: p.Cash})
}

// --- 只读访问 ---

func (g *Game) Status() Status    { return g.status }
func (g *Game) Phase() TurnPhase  { return g.phase }
func (g *Game) Winner() string    { return g.winner }
func (g *Game) Generation() int64 { return g.generation }
func (g *Game) PlayerCount() int  { return len(g.players) }

// CurrentPlayerID 当前行动者，LOBBY 阶段返回空串
func (g *Game) CurrentPlayerID() string {
	if g.status == StatusLobby || len(g.players) == 0 {
		return ""
	}
	return g.players[g.current].ID
}

// GetPlayer 玩家快照
func (g *Game) GetPlayer(id string) (PlayerView, bool) {
	p := g.playerByID(id)
	if p == nil {
		return PlayerView{}, false
	}
	return p.view(), true
}

func (g *Game) playerViews() []PlayerView {
	views := make([]PlayerView, 0, len(g.players))
	for _, p := range g.players {
		views = append(views, p.view())
	}
	return views
}

// Snapshot 整局状态快照，用于全量同步
type Snapshot struct {
	BoardVersion int            `json:"boardVersion"`
	Status       Status         `json:"status"`
	Phase        TurnPhase      `json:"phase"`
	CurrentTurn  string         `json:"currentTurn,omitempty"`
	Players      []PlayerView   `json:"players"`
	Ownership    map[int]string `json:"ownership"`
	Improvements map[int]int    `json:"improvements"`
	Winner       string         `json:"winner,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	ownership := make(map[int]string, len(g.ownership))
	for k, v := range g.ownership {
		ownership[k] = v
	}
	improvements := make(map[int]int, len(g.improvements))
	for k, v := range g.improvements {
		improvements[k] = v
	}
	return Snapshot{
		BoardVersion: board.Version,
		Status:       g.status,
		Phase:        g.phase,
		CurrentTurn:  g.CurrentPlayerID(),
		Players:      g.playerViews(),
		Ownership:    ownership,
		Improvements: improvements,
		Winner:       g.winner,
	}
}
