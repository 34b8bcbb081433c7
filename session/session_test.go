package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/monopoly/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByName(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.SetIdentity("alice", "")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.SetIdentity("bob", "")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.SetIdentity("alice", "")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	aliceSessions := manager.GetByName("alice")
	if len(aliceSessions) != 2 {
		t.Errorf("Expected 2 sessions for alice, got %d", len(aliceSessions))
	}

	bobSessions := manager.GetByName("bob")
	if len(bobSessions) != 1 {
		t.Errorf("Expected 1 session for bob, got %d", len(bobSessions))
	}

	unknownSessions := manager.GetByName("carol")
	if len(unknownSessions) != 0 {
		t.Errorf("Expected 0 sessions for carol, got %d", len(unknownSessions))
	}
}

func TestSession_SetIdentity(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	sess.SetIdentity("alice", "avatar-3")
	if sess.GetName() != "alice" {
		t.Errorf("Expected name alice, got %s", sess.GetName())
	}
	if sess.Avatar != "avatar-3" {
		t.Errorf("Expected avatar avatar-3, got %s", sess.Avatar)
	}
}

func TestSession_SendUpdatesLastActive(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.LastActive

	time.Sleep(10 * time.Millisecond)
	if err := sess.Send(1, nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if !sess.LastActive.After(before) {
		t.Error("Send should refresh LastActive")
	}
}

func TestSession_TouchConcurrentWithSend(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.LastActive

	time.Sleep(10 * time.Millisecond)

	// 心跳走 Touch，房间广播走 Send，两边来自不同的 goroutine
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sess.Touch()
				sess.Send(1, nil)
			}
		}()
	}
	wg.Wait()

	if !sess.LastActive.After(before) {
		t.Error("Touch should refresh LastActive")
	}
}

func TestManager_GetByNameDuringIdentityUpdates(t *testing.T) {
	manager := NewManager()
	sess := NewSession("session1", &MockConnection{})
	sess.SetIdentity("alice", "")
	manager.Add(sess)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sess.SetIdentity("alice", "avatar-1")
		}
	}()
	for i := 0; i < 200; i++ {
		manager.GetByName("alice")
	}
	wg.Wait()

	if got := manager.GetByName("alice"); len(got) != 1 {
		t.Errorf("Expected 1 session for alice, got %d", len(got))
	}
}
