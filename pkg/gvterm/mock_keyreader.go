package gvterm

import (
	"io"
	"sync"
)

// MockKeyReader is a test double for KeyReader.
// It replays a fixed sequence of keys and then returns Err.
type MockKeyReader struct {
	mu sync.Mutex

	// Keys are returned in order, one per ReadKey call
	Keys []rune

	// Err is returned once Keys is exhausted (io.EOF when nil)
	Err error

	// CallCount tracks how many times ReadKey was called
	CallCount int
}

// NewMockKeyReader creates a mock that replays keys
func NewMockKeyReader(keys ...rune) *MockKeyReader {
	return &MockKeyReader{Keys: keys}
}

// ReadKey implements KeyReader.
func (m *MockKeyReader) ReadKey() (rune, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if len(m.Keys) == 0 {
		if m.Err != nil {
			return 0, m.Err
		}
		return 0, io.EOF
	}
	key := m.Keys[0]
	m.Keys = m.Keys[1:]
	return key, nil
}

// GetCallCount returns the number of times ReadKey was called
func (m *MockKeyReader) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
