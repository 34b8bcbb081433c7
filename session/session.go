package session

import (
	"sync"
	"time"

	"github.com/wfunc/monopoly/network"
)

// Session 一条连接对应一个会话。会话 ID 同时是对局里的玩家 ID。
type Session struct {
	ID         string
	Conn       network.Connection
	RoomID     string
	Name       string
	Avatar     string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.Touch()
	return s.Conn.Send(msgID, data)
}

// Touch 刷新活跃时间。Send 在别的玩家的动作 goroutine 上也会调到，
// 所以心跳和广播都必须走同一把锁。
func (s *Session) Touch() {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) GetName() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Name
}

// SetIdentity 入场时由客户端上报的昵称和头像
func (s *Session) SetIdentity(name, avatar string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Name = name
	s.Avatar = avatar
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager 全部在线会话
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// GetByName 同昵称的全部会话
func (m *Manager) GetByName(name string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.GetName() == name {
			result = append(result, session)
		}
	}
	return result
}
