package service

import (
	"sort"
	"sync"

	"github.com/MKhiriev/orbit-sync/models"
)

// pendingQueue keeps conflicted batches in memory until the operator rules
// on them. Survives session teardown but not process restart; a batch lost
// to a restart is simply re-uploaded by the remote device.
type pendingQueue struct {
	mu      sync.RWMutex
	pending map[string]models.PendingSyncData
}

func NewPendingQueue() PendingQueue {
	return &pendingQueue{pending: make(map[string]models.PendingSyncData)}
}

func (q *pendingQueue) Add(pending models.PendingSyncData) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[pending.ID] = pending
}

func (q *pendingQueue) List() []models.PendingSyncData {
	q.mu.RLock()
	defer q.mu.RUnlock()

	list := make([]models.PendingSyncData, 0, len(q.pending))
	for _, p := range q.pending {
		list = append(list, p)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].ReceivedAt != list[j].ReceivedAt {
			return list[i].ReceivedAt < list[j].ReceivedAt
		}
		return list[i].ID < list[j].ID
	})

	return list
}

func (q *pendingQueue) Get(id string) (models.PendingSyncData, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	p, ok := q.pending[id]
	return p, ok
}

func (q *pendingQueue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.pending[id]; !ok {
		return false
	}
	delete(q.pending, id)
	return true
}

func (q *pendingQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}
