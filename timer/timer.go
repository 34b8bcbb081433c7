package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task 一个定时任务。Interval 大于 0 时到点后按间隔重复。
type Task struct {
	ID       int64
	runAt    time.Time
	interval time.Duration
	fn       func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].runAt.Before(q[j].runAt)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Manager 小顶堆定时器。回合倒计时这类任务必须能在玩家行动时
// 取消，所以 Schedule 返回任务 ID，Cancel 按 ID 摘除。
// 回调在独立 goroutine 里执行，回调自己负责重新校验房间状态。
type Manager struct {
	queue    taskQueue
	mutex    sync.Mutex
	nextID   int64
	trigger  chan *Task
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewManager() *Manager {
	m := &Manager{
		queue:    make(taskQueue, 0),
		trigger:  make(chan *Task, 1000),
		nextID:   1,
		stopChan: make(chan struct{}),
	}
	heap.Init(&m.queue)
	go m.process()
	return m
}

// Schedule 一次性任务，到点执行 fn，返回可用于取消的任务 ID
func (m *Manager) Schedule(delay time.Duration, fn func()) int64 {
	return m.add(delay, 0, fn)
}

// ScheduleRepeating 周期任务，首次在 delay 后触发，之后每 interval 一次
func (m *Manager) ScheduleRepeating(delay, interval time.Duration, fn func()) int64 {
	return m.add(delay, interval, fn)
}

func (m *Manager) add(delay, interval time.Duration, fn func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task := &Task{
		ID:       m.nextID,
		runAt:    time.Now().Add(delay),
		interval: interval,
		fn:       fn,
	}
	m.nextID++

	heap.Push(&m.queue, task)
	return task.ID
}

// Cancel 摘除尚未触发的任务。已经触发进入执行队列的任务无法追回，
// 所以回调内部的状态校验仍然是必要的。
func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.queue {
		if task.ID == taskID {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop 停止调度循环，已入队的回调不再执行
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *Manager) process() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return

		case <-ticker.C:
			m.mutex.Lock()
			now := time.Now()
			for m.queue.Len() > 0 {
				task := m.queue[0]
				if task.runAt.After(now) {
					break
				}
				heap.Pop(&m.queue)
				m.trigger <- task

				if task.interval > 0 {
					task.runAt = now.Add(task.interval)
					heap.Push(&m.queue, task)
				}
			}
			m.mutex.Unlock()

		case task := <-m.trigger:
			go task.fn()
		}
	}
}
