package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-maze/domain"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memQueue struct {
	sync.Mutex
	items map[string][]memItem
}

type memItem struct {
	score  float64
	member string
}

func newMemQueue() *memQueue {
	return &memQueue{items: make(map[string][]memItem)}
}

func (q *memQueue) Enqueue(_ context.Context, key string, score float64, member string) error {
	q.Lock()
	defer q.Unlock()
	items := append(q.items[key], memItem{score: score, member: member})
	sort.SliceStable(items, func(a, b int) bool { return items[a].score < items[b].score })
	q.items[key] = items
	return nil
}

func (q *memQueue) DequeTops(_ context.Context, key string, amount int64) ([]string, error) {
	q.Lock()
	defer q.Unlock()
	items := q.items[key]
	n := int(amount)
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, n)
	for k := 0; k < n; k++ {
		out[k] = items[k].member
	}
	q.items[key] = items[n:]
	return out, nil
}

func (q *memQueue) Count(_ context.Context, key string) int64 {
	q.Lock()
	defer q.Unlock()
	return int64(len(q.items[key]))
}

type memRuns struct {
	sync.Mutex
	runs map[uuid.UUID]domain.Run
}

func newMemRuns() *memRuns {
	return &memRuns{runs: make(map[uuid.UUID]domain.Run)}
}

func (m *memRuns) Save(_ context.Context, run *domain.Run) error {
	m.Lock()
	defer m.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) ByID(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	m.Lock()
	defer m.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func discardLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("TEST", "", io.Discard)
	require.NoError(t, err)
	return l
}
