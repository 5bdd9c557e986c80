package ws

import (
	"errors"
	"sync"
	"time"
)

var errConnBroken = errors.New("connection broken")

// mockConn is an in-memory Conn for tests. ReadMessage blocks until the
// connection is closed, matching a peer that never sends.
type mockConn struct {
	mu         sync.Mutex
	frames     [][]byte
	failWrites bool
	closed     bool
	done       chan struct{}
	once       sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{done: make(chan struct{})}
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	<-m.done
	return 0, nil, errConnBroken
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites || m.closed {
		return errConnBroken
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	m.frames = append(m.frames, frame)
	return nil
}

func (m *mockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *mockConn) breakWrites() {
	m.mu.Lock()
	m.failWrites = true
	m.mu.Unlock()
}

func (m *mockConn) sentFrames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := make([][]byte, len(m.frames))
	copy(frames, m.frames)
	return frames
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
