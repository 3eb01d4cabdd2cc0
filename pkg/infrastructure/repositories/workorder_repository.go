package repositories

import (
	"context"
	"errors"

	"github.com/fossawork/fossawork/pkg/filter"
)

// ErrNotFound is returned when a requested work order does not exist for
// the user.
var ErrNotFound = errors.New("work order not found")

// WorkOrderRepository stores scraped work orders per user. The scraper
// pushes full snapshots; ReplaceSnapshot implements the rescrape
// semantics (a user's previous snapshot is discarded wholesale, since
// the portal is the source of truth).
type WorkOrderRepository interface {
	ReplaceSnapshot(ctx context.Context, user string, orders []filter.WorkOrder) error
	Upsert(ctx context.Context, user string, order filter.WorkOrder) error
	List(ctx context.Context, user string) ([]filter.WorkOrder, error)
	Get(ctx context.Context, user, id string) (filter.WorkOrder, error)
	Delete(ctx context.Context, user, id string) error
}
