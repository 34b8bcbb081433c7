package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/monopoly/board"
)

type eventRecord struct {
	event   string
	payload interface{}
	target  string // 空串表示广播
}

// recordingNotifier 记录引擎发出的所有事件
type recordingNotifier struct {
	events []eventRecord
}

func (r *recordingNotifier) Broadcast(event string, payload interface{}) {
	r.events = append(r.events, eventRecord{event: event, payload: payload})
}

func (r *recordingNotifier) Target(playerID string, event string, payload interface{}) {
	r.events = append(r.events, eventRecord{event: event, payload: payload, target: playerID})
}

func (r *recordingNotifier) last(event string) (eventRecord, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].event == event {
			return r.events[i], true
		}
	}
	return eventRecord{}, false
}

func newStartedGame(t *testing.T, ids ...string) (*Game, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	g := NewGame(DefaultConfig(), n)
	for _, id := range ids {
		require.NoError(t, g.AddPlayer(id, "name-"+id))
	}
	require.NoError(t, g.Start())
	return g, n
}

// queueDice 按顺序消耗预设的骰子结果，用完后重复最后一组
func queueDice(g *Game, rolls ...[2]int) {
	i := 0
	g.SetDice(func() (int, int) {
		r := rolls[i]
		if i < len(rolls)-1 {
			i++
		}
		return r[0], r[1]
	})
}

func TestLobbyValidation(t *testing.T) {
	g := NewGame(DefaultConfig(), nil)

	require.NoError(t, g.AddPlayer("p1", "alice"))
	assert.Equal(t, ErrDuplicatePlayer, g.AddPlayer("p1", "alice"))
	assert.Equal(t, ErrTooFewPlayers, g.Start())

	for i := 2; i <= 6; i++ {
		require.NoError(t, g.AddPlayer(string(rune('0'+i)), "p"))
	}
	assert.Equal(t, ErrGameFull, g.AddPlayer("p7", "late"))

	require.NoError(t, g.Start())
	assert.Equal(t, StatusPlaying, g.Status())
	assert.Equal(t, ErrAlreadyStarted, g.AddPlayer("p8", "later"))
	assert.Equal(t, ErrAlreadyStarted, g.Start())
}

func TestStartAssignsCashAndColors(t *testing.T) {
	g, n := newStartedGame(t, "p1", "p2", "p3")

	for _, id := range []string{"p1", "p2", "p3"} {
		pv, ok := g.GetPlayer(id)
		require.True(t, ok)
		assert.Equal(t, 1500, pv.Money)
		assert.Equal(t, 0, pv.Position)
		assert.NotEmpty(t, pv.Color)
	}

	evt, ok := n.last(EvtGameStarted)
	require.True(t, ok)
	assert.Equal(t, "p1", evt.payload.(GameStartedEvent).CurrentTurn)
	assert.Equal(t, "p1", g.CurrentPlayerID())
}

func TestTurnExclusivity(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{2, 3})

	assert.Equal(t, ErrNotYourTurn, g.RollDice("p2"))
	assert.Equal(t, ErrNotYourTurn, g.EndTurn("p2"))
	require.NoError(t, g.RollDice("p1"))
}

func TestRollLandsOnUnownedProperty(t *testing.T) {
	g, n := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{2, 3}) // 落在 5 号 Reading Railroad

	require.NoError(t, g.RollDice("p1"))
	assert.Equal(t, PhaseAwaitDecision, g.Phase())
	assert.Equal(t, "p1", g.CurrentPlayerID())

	offer, ok := n.last(EvtPurchaseOffer)
	require.True(t, ok)
	assert.Equal(t, "p1", offer.target)
	assert.Equal(t, 5, offer.payload.(PurchaseOfferEvent).Tile)
	assert.Equal(t, 200, offer.payload.(PurchaseOfferEvent).Price)

	// 报价挂起期间不能再掷
	assert.Equal(t, ErrDecisionPending, g.RollDice("p1"))
}

func TestBuyProperty(t *testing.T) {
	g, n := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{2, 3})

	require.NoError(t, g.RollDice("p1"))
	require.NoError(t, g.BuyProperty("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.Equal(t, 1300, pv.Money)
	assert.Equal(t, []int{5}, pv.Owned)

	evt, ok := n.last(EvtPropertyBought)
	require.True(t, ok)
	assert.Equal(t, 5, evt.payload.(PropertyBoughtEvent).Tile)

	// 非双数，买完交接回合
	assert.Equal(t, "p2", g.CurrentPlayerID())
	assert.Equal(t, PhaseAwaitRoll, g.Phase())
}

func TestDeclinePurchaseOffer(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{2, 3})

	require.NoError(t, g.RollDice("p1"))
	require.NoError(t, g.EndTurn("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.Equal(t, 1500, pv.Money)
	assert.Empty(t, pv.Owned)
	assert.Equal(t, "p2", g.CurrentPlayerID())

	// 报价失效后买不了
	assert.Equal(t, ErrNotYourTurn, g.BuyProperty("p1"))
}

func TestBuyWithoutOffer(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	assert.Equal(t, ErrNoPendingPurchase, g.BuyProperty("p1"))
}

func TestDoublesGrantExtraRoll(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{3, 3}, [2]int{1, 2})

	gen := g.Generation()
	require.NoError(t, g.RollDice("p1")) // 双数落在 6 号，报价挂起
	require.NoError(t, g.BuyProperty("p1"))

	// 买完兑现欠下的加掷，回合不交接但代数 +1
	assert.Equal(t, "p1", g.CurrentPlayerID())
	assert.Equal(t, PhaseAwaitRoll, g.Phase())
	assert.Equal(t, gen+1, g.Generation())

	require.NoError(t, g.RollDice("p1")) // 非双数落在 9 号
	require.NoError(t, g.EndTurn("p1"))
	assert.Equal(t, "p2", g.CurrentPlayerID())
}

func TestTripleDoublesSendsToJail(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{3, 3}, [2]int{5, 5}, [2]int{1, 1})

	require.NoError(t, g.RollDice("p1")) // 6 号报价
	require.NoError(t, g.EndTurn("p1")) // 拒绝，仍有加掷
	require.NoError(t, g.RollDice("p1")) // 16 号报价
	require.NoError(t, g.EndTurn("p1"))
	require.NoError(t, g.RollDice("p1")) // 第三次双数，直接入狱

	pv, _ := g.GetPlayer("p1")
	assert.True(t, pv.Jailed)
	assert.Equal(t, board.JailIndex, pv.Position)
	assert.Equal(t, "p2", g.CurrentPlayerID())
}

func TestGoToJailTile(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.playerByID("p1").Position = 27
	queueDice(g, [2]int{1, 2}) // 27 + 3 = 30 入狱格

	require.NoError(t, g.RollDice("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.True(t, pv.Jailed)
	assert.Equal(t, board.JailIndex, pv.Position)
	assert.Equal(t, 1500, pv.Money)
	assert.Equal(t, "p2", g.CurrentPlayerID())
}

func TestPassGoBonus(t *testing.T) {
	g, n := newStartedGame(t, "p1", "p2")
	g.playerByID("p1").Position = 38
	queueDice(g, [2]int{2, 3}) // 38 + 5 绕过起点到 3 号

	require.NoError(t, g.RollDice("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.Equal(t, 3, pv.Position)
	assert.Equal(t, 1700, pv.Money)

	moved, ok := n.last(EvtPlayerMoved)
	require.True(t, ok)
	assert.True(t, moved.payload.(PlayerMovedEvent).PassedGo)

	// 3 号 Baltic 无主且买得起，报价挂起
	assert.Equal(t, PhaseAwaitDecision, g.Phase())
}

func TestJailDoublesRelease(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.sendToJail(g.playerByID("p1"), JailReasonTile)
	queueDice(g, [2]int{3, 3}) // 双数出狱并前进 6 格

	require.NoError(t, g.RollDice("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.False(t, pv.Jailed)
	assert.Equal(t, 16, pv.Position)
	// 出狱移动不再享受双数加掷，16 号报价挂起后答复即交接
	assert.Equal(t, PhaseAwaitDecision, g.Phase())
	require.NoError(t, g.EndTurn("p1"))
	assert.Equal(t, "p2", g.CurrentPlayerID())
}

func TestJailThirdRollForcesBail(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.sendToJail(g.playerByID("p1"), JailReasonCard)
	queueDice(g, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 4})

	for round := 1; round <= 2; round++ {
		require.NoError(t, g.RollDice("p1"))
		pv, _ := g.GetPlayer("p1")
		assert.True(t, pv.Jailed)
		assert.Equal(t, round, pv.JailRounds)
		assert.Equal(t, "p2", g.CurrentPlayerID())
		require.NoError(t, g.EndTurn("p2"))
	}

	// 第三次掷骰失败：强制交保释金，出狱并按点数移动
	require.NoError(t, g.RollDice("p1"))
	pv, _ := g.GetPlayer("p1")
	assert.False(t, pv.Jailed)
	assert.Equal(t, 0, pv.JailRounds)
	assert.Equal(t, 1450, pv.Money)
	assert.Equal(t, 16, pv.Position)
}

func TestForcedBailBankruptcy(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	p1 := g.playerByID("p1")
	g.sendToJail(p1, JailReasonCard)
	p1.Cash = 30
	p1.JailRounds = 2
	queueDice(g, [2]int{1, 2})

	require.NoError(t, g.RollDice("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.True(t, pv.Bankrupt)
	assert.Equal(t, 0, pv.Money)
	assert.Equal(t, StatusFinished, g.Status())
	assert.Equal(t, "p2", g.Winner())
}

func TestPayBail(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.sendToJail(g.playerByID("p1"), JailReasonTile)

	assert.Equal(t, ErrNotJailed, g.PayBail("p2"))
	require.NoError(t, g.PayBail("p1"))

	pv, _ := g.GetPlayer("p1")
	assert.False(t, pv.Jailed)
	assert.Equal(t, 1450, pv.Money)
	// 交保释金不消耗回合，仍然可以掷骰
	assert.Equal(t, "p1", g.CurrentPlayerID())
	assert.Equal(t, PhaseAwaitRoll, g.Phase())

	assert.Equal(t, ErrNotJailed, g.PayBail("p1"))
}

func TestRemovePlayerInLobby(t *testing.T) {
	g := NewGame(DefaultConfig(), nil)
	require.NoError(t, g.AddPlayer("p1", "a"))
	require.NoError(t, g.AddPlayer("p2", "b"))

	g.RemovePlayer("p1")
	assert.Equal(t, 1, g.PlayerCount())
}

func TestRemovePlayerDuringPlay(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2", "p3")
	g.ownership[5] = "p1"
	g.playerByID("p1").addTile(5)

	g.RemovePlayer("p1")

	pv, _ := g.GetPlayer("p1")
	assert.True(t, pv.Bankrupt)
	// 资产回银行而不是给某个玩家
	_, owned := g.ownership[5]
	assert.False(t, owned)
	// 轮到他时立即交接
	assert.Equal(t, "p2", g.CurrentPlayerID())
	assert.Equal(t, StatusPlaying, g.Status())
}

func TestForcePassSkipsBankrupt(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2", "p3")
	g.playerByID("p2").Bankrupt = true

	g.ForcePass()
	assert.Equal(t, "p3", g.CurrentPlayerID())
}

func TestForcePassClearsPendingOffer(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	queueDice(g, [2]int{2, 3})
	require.NoError(t, g.RollDice("p1"))
	require.Equal(t, PhaseAwaitDecision, g.Phase())

	g.ForcePass()
	assert.Equal(t, "p2", g.CurrentPlayerID())
	assert.Equal(t, PhaseAwaitRoll, g.Phase())
	assert.Equal(t, ErrNotYourTurn, g.BuyProperty("p1"))
}

func TestActionsRejectedAfterFinish(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.resolveBankruptcy(g.playerByID("p2"), nil)
	require.Equal(t, StatusFinished, g.Status())
	require.Equal(t, "p1", g.Winner())

	assert.Equal(t, ErrGameFinished, g.RollDice("p1"))
	assert.Equal(t, ErrGameFinished, g.EndTurn("p1"))
	assert.Equal(t, ErrGameFinished, g.BuyProperty("p1"))
}

func TestWinDeclaredOnce(t *testing.T) {
	g, n := newStartedGame(t, "p1", "p2", "p3")
	g.resolveBankruptcy(g.playerByID("p2"), nil)
	assert.Equal(t, StatusPlaying, g.Status())

	g.resolveBankruptcy(g.playerByID("p3"), nil)
	assert.Equal(t, StatusFinished, g.Status())
	assert.Equal(t, "p1", g.Winner())

	// 再次清算同一玩家不会改变终局
	g.resolveBankruptcy(g.playerByID("p3"), nil)
	count := 0
	for _, e := range n.events {
		if e.event == EvtGameOver {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSnapshot(t *testing.T) {
	g, _ := newStartedGame(t, "p1", "p2")
	g.ownership[1] = "p1"
	g.playerByID("p1").addTile(1)
	g.improvements[1] = 2

	snap := g.Snapshot()
	assert.Equal(t, board.Version, snap.BoardVersion)
	assert.Equal(t, StatusPlaying, snap.Status)
	assert.Equal(t, "p1", snap.CurrentTurn)
	assert.Equal(t, "p1", snap.Ownership[1])
	assert.Equal(t, 2, snap.Improvements[1])
	assert.Len(t, snap.Players, 2)

	// 快照是副本，改动不回写
	snap.Ownership[1] = "p2"
	assert.Equal(t, "p1", g.ownership[1])
}
