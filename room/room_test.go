package room

import (
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/timer"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockBroadcaster is a test double for the Broadcaster interface.
// It records every message sent through it.
type MockBroadcaster struct {
	mutex  sync.Mutex
	msgIDs []uint16
}

func (m *MockBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.msgIDs = append(m.msgIDs, msgID)
	return nil
}

func (m *MockBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.msgIDs = append(m.msgIDs, msgID)
	return nil
}

func (m *MockBroadcaster) count(msgID uint16) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	n := 0
	for _, id := range m.msgIDs {
		if id == msgID {
			n++
		}
	}
	return n
}

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func newTestSession(id string) *session.Session {
	return session.NewSession(id, &MockConnection{})
}

func newTestRoom(t *testing.T, turnLimit time.Duration) (*Room, *MockBroadcaster, *timer.Manager) {
	t.Helper()
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	t.Cleanup(timers.Stop)
	r := NewRoom("TEST1", "Test Room", turnLimit, game.DefaultConfig(), broadcaster, timers, nil)
	t.Cleanup(r.Close)
	return r, broadcaster, timers
}

func TestManager_CreateAndGetRoom(t *testing.T) {
	manager := NewManager()
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	r := manager.CreateRoom("Test Room", 45*time.Second, game.DefaultConfig(), broadcaster, timers, nil)
	if r == nil {
		t.Fatal("CreateRoom should not return nil")
	}
	defer r.Close()

	if len(r.ID) != roomCodeLength {
		t.Errorf("Expected room code of length %d, got %q", roomCodeLength, r.ID)
	}

	retrieved, exists := manager.GetRoom(r.ID)
	if !exists {
		t.Fatal("GetRoom should find the created room")
	}
	if retrieved != r {
		t.Error("GetRoom should return the same room instance")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 room, got %d", manager.Count())
	}
}

func TestManager_RemoveRoom(t *testing.T) {
	manager := NewManager()
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	r := manager.CreateRoom("Test Room", 45*time.Second, game.DefaultConfig(), broadcaster, timers, nil)
	manager.RemoveRoom(r.ID)

	if _, exists := manager.GetRoom(r.ID); exists {
		t.Error("Removed room should not be found")
	}
	if manager.Count() != 0 {
		t.Errorf("Expected 0 rooms, got %d", manager.Count())
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	r := manager.CreateRoom("Directory Room", 45*time.Second, game.DefaultConfig(), broadcaster, timers, nil)
	defer r.Close()
	if err := r.AddPlayer(newTestSession("p1"), "alice", ""); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	infos := manager.List()
	if len(infos) != 1 {
		t.Fatalf("Expected 1 room in directory, got %d", len(infos))
	}
	info := infos[0]
	if info.Name != "Directory Room" || info.Count != 1 || info.Host != "alice" {
		t.Errorf("Unexpected directory entry: %+v", info)
	}
	if info.Status != string(game.StatusLobby) {
		t.Errorf("Expected LOBBY status, got %s", info.Status)
	}
}

func TestRoom_AddPlayerAssignsHost(t *testing.T) {
	r, _, _ := newTestRoom(t, 45*time.Second)

	if err := r.AddPlayer(newTestSession("p1"), "alice", ""); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	if err := r.AddPlayer(newTestSession("p2"), "bob", ""); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	if r.HostID() != "p1" {
		t.Errorf("Expected first player to be host, got %s", r.HostID())
	}

	players := r.Players()
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	if !players[0].IsHost || players[1].IsHost {
		t.Error("Host flag should be set on the first player only")
	}
}

func TestRoom_AddPlayerFull(t *testing.T) {
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	cfg := game.DefaultConfig()
	cfg.MaxPlayers = 2
	r := NewRoom("FULL1", "Full Room", 45*time.Second, cfg, broadcaster, timers, nil)
	defer r.Close()

	r.AddPlayer(newTestSession("p1"), "a", "")
	r.AddPlayer(newTestSession("p2"), "b", "")

	if err := r.AddPlayer(newTestSession("p3"), "c", ""); err != ErrRoomFull {
		t.Fatalf("Expected ErrRoomFull, got %v", err)
	}
}

func TestRoom_RemovePlayerReassignsHost(t *testing.T) {
	r, _, _ := newTestRoom(t, 45*time.Second)

	r.AddPlayer(newTestSession("p1"), "alice", "")
	r.AddPlayer(newTestSession("p2"), "bob", "")

	if empty := r.RemovePlayer("p1"); empty {
		t.Fatal("Room should not be empty with one player left")
	}
	if r.HostID() != "p2" {
		t.Errorf("Expected host to pass to p2, got %s", r.HostID())
	}

	if empty := r.RemovePlayer("p2"); !empty {
		t.Fatal("Room should report empty after the last player leaves")
	}
}

func TestRoom_StartGameFlow(t *testing.T) {
	r, broadcaster, _ := newTestRoom(t, 45*time.Second)

	host := newTestSession("p1")
	guest := newTestSession("p2")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")

	// 非房主不能开局
	if err := r.HandleAction(guest, network.MsgTypeStartGame, nil); err == nil {
		t.Fatal("Non-host start should fail")
	}

	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Host start failed: %v", err)
	}
	if r.Game().Status() != game.StatusPlaying {
		t.Error("Game should be playing")
	}
	if broadcaster.count(network.MsgTypeGameStarted) != 1 {
		t.Error("Expected a gameStarted broadcast")
	}

	// 开局后再开报错
	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err == nil {
		t.Fatal("Second start should fail")
	}
}

func TestRoom_ActionDispatch(t *testing.T) {
	r, broadcaster, _ := newTestRoom(t, 45*time.Second)

	host := newTestSession("p1")
	guest := newTestSession("p2")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")
	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	r.Game().SetDice(func() (int, int) { return 2, 3 })
	if err := r.HandleAction(guest, network.MsgTypeRollDice, nil); err != game.ErrNotYourTurn {
		t.Fatalf("Expected ErrNotYourTurn, got %v", err)
	}
	if err := r.HandleAction(host, network.MsgTypeRollDice, nil); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if broadcaster.count(network.MsgTypeDiceResult) != 1 {
		t.Error("Expected a dice result broadcast")
	}
	// 落在 5 号车站，报价定向发给行动者
	if broadcaster.count(network.MsgTypePurchaseOffer) != 1 {
		t.Error("Expected a purchase offer message")
	}

	if err := r.HandleAction(host, network.MsgTypeBuyProperty, nil); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	pv, _ := r.Game().GetPlayer("p1")
	if pv.Money != 1300 {
		t.Errorf("Expected 1300 after purchase, got %d", pv.Money)
	}
}

func TestRoom_InfoDuringActions(t *testing.T) {
	manager := NewManager()
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	r := manager.CreateRoom("Busy Room", 45*time.Second, game.DefaultConfig(), broadcaster, timers, nil)
	defer r.Close()

	host := newTestSession("p1")
	guest := newTestSession("p2")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")
	r.Game().SetDice(func() (int, int) { return 2, 3 })

	// 房间目录在别的连接的 goroutine 上查询，必须能和正在处理的动作并发
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					r.Info()
					manager.List()
				}
			}
		}()
	}

	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := r.HandleAction(host, network.MsgTypeRollDice, nil); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	close(stop)
	wg.Wait()

	if got := r.Info().Status; got != string(game.StatusPlaying) {
		t.Errorf("Directory entry should show PLAYING, got %s", got)
	}
}

func TestRoom_TurnTimerForcesPass(t *testing.T) {
	r, broadcaster, _ := newTestRoom(t, 200*time.Millisecond)

	host := newTestSession("p1")
	guest := newTestSession("p2")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")
	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for broadcaster.count(network.MsgTypeTurnChange) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Turn timer never forced a pass")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestRoom_DisconnectDuringPlayBankrupts(t *testing.T) {
	r, _, _ := newTestRoom(t, 45*time.Second)

	host := newTestSession("p1")
	guest := newTestSession("p2")
	third := newTestSession("p3")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")
	r.AddPlayer(third, "carol", "")
	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if empty := r.RemovePlayer("p2"); empty {
		t.Fatal("Room should not be empty")
	}

	pv, ok := r.Game().GetPlayer("p2")
	if !ok {
		t.Fatal("Player record should survive disconnect during play")
	}
	if !pv.Bankrupt {
		t.Error("Disconnected player should be bankrupt")
	}
	if r.Game().Status() != game.StatusPlaying {
		t.Error("Game should continue with two players left")
	}
}

func TestRoom_LastOpponentLeavingEndsGame(t *testing.T) {
	broadcaster := &MockBroadcaster{}
	timers := timer.NewManager()
	defer timers.Stop()

	recorded := make(chan game.Snapshot, 1)
	r := NewRoom("END01", "End Room", 45*time.Second, game.DefaultConfig(),
		broadcaster, timers, recorderFunc(func(roomID string, snap game.Snapshot) {
			recorded <- snap
		}))
	defer r.Close()

	host := newTestSession("p1")
	guest := newTestSession("p2")
	r.AddPlayer(host, "alice", "")
	r.AddPlayer(guest, "bob", "")
	if err := r.HandleAction(host, network.MsgTypeStartGame, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	r.RemovePlayer("p2")

	if r.Game().Status() != game.StatusFinished {
		t.Fatal("Game should finish when only one player remains")
	}
	if r.Game().Winner() != "p1" {
		t.Errorf("Expected p1 to win, got %s", r.Game().Winner())
	}

	select {
	case snap := <-recorded:
		if snap.Winner != "p1" {
			t.Errorf("Recorded winner should be p1, got %s", snap.Winner)
		}
	case <-time.After(time.Second):
		t.Fatal("Result was never recorded")
	}
}

// recorderFunc adapts a function to the GameRecorder interface.
type recorderFunc func(roomID string, snapshot game.Snapshot)

func (f recorderFunc) SaveGameResult(roomID string, snapshot game.Snapshot) {
	f(roomID, snapshot)
}
