package store

import (
	"context"
	"sync"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

// Memory is an in-process ResultStore. It is the default when no Redis is
// configured.
type Memory struct {
	mu  sync.RWMutex
	res *pipeline.Result
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, res *pipeline.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.res = res
	return nil
}

func (m *Memory) Latest(_ context.Context) (*pipeline.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.res == nil {
		return nil, ErrNoResult
	}
	return m.res, nil
}
