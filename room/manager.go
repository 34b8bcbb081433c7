package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/timer"
)

const roomCodeLength = 5

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Manager 房间登记处：唯一的全局可变状态就是这张表，
// 创建、查找、销毁都从这里走。
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
	rng   *rand.Rand
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newCode 短房间码，易读字符集，去掉了 0/O/1/I
func (m *Manager) newCode() string {
	buf := make([]byte, roomCodeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[m.rng.Intn(len(codeAlphabet))]
		}
		if _, exists := m.rooms[string(buf)]; !exists {
			return string(buf)
		}
	}
}

// CreateRoom 创建房间并登记
func (m *Manager) CreateRoom(name string, turnLimit time.Duration, cfg game.Config,
	broadcaster Broadcaster, timers *timer.Manager, recorder GameRecorder) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := m.newCode()
	room := NewRoom(id, name, turnLimit, cfg, broadcaster, timers, recorder)
	m.rooms[id] = room
	return room
}

// RemoveRoom 注销并关闭房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
	}
}

func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// List 房间目录
func (m *Manager) List() []Info {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mutex.RUnlock()

	infos := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	return infos
}
