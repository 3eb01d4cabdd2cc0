package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fossawork/fossawork/pkg/filter"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories"
)

// WorkOrderRepository provides in-memory per-user work order storage.
// It serves as the scraper's landing zone in single-node deployments and
// as the test double for the Postgres repository.
type WorkOrderRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]filter.WorkOrder
}

// NewWorkOrderRepository creates a new in-memory work order repository.
func NewWorkOrderRepository() *WorkOrderRepository {
	return &WorkOrderRepository{
		byUser: make(map[string]map[string]filter.WorkOrder),
	}
}

// Verify interface compliance
var _ repositories.WorkOrderRepository = (*WorkOrderRepository)(nil)

// ReplaceSnapshot discards the user's stored orders and stores the new
// snapshot.
func (r *WorkOrderRepository) ReplaceSnapshot(ctx context.Context, user string, orders []filter.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]filter.WorkOrder, len(orders))
	for _, wo := range orders {
		snapshot[wo.ID] = wo
	}
	r.byUser[user] = snapshot
	return nil
}

// Upsert stores or replaces one work order for the user.
func (r *WorkOrderRepository) Upsert(ctx context.Context, user string, order filter.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[user] == nil {
		r.byUser[user] = make(map[string]filter.WorkOrder)
	}
	r.byUser[user][order.ID] = order
	return nil
}

// List returns the user's work orders sorted by id.
func (r *WorkOrderRepository) List(ctx context.Context, user string) ([]filter.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]filter.WorkOrder, 0, len(r.byUser[user]))
	for _, wo := range r.byUser[user] {
		orders = append(orders, wo)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// Get returns one work order by id.
func (r *WorkOrderRepository) Get(ctx context.Context, user, id string) (filter.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wo, ok := r.byUser[user][id]
	if !ok {
		return filter.WorkOrder{}, repositories.ErrNotFound
	}
	return wo, nil
}

// Delete removes one work order by id.
func (r *WorkOrderRepository) Delete(ctx context.Context, user, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[user][id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byUser[user], id)
	return nil
}
