package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fossawork/fossawork/pkg/filter"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories"
)

// WorkOrderRepository persists scraped work orders in Postgres.
type WorkOrderRepository struct {
	db *sql.DB
}

// New opens a connection pool and verifies connectivity.
func New(dsn string) (*WorkOrderRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &WorkOrderRepository{db: db}, nil
}

// Verify interface compliance
var _ repositories.WorkOrderRepository = (*WorkOrderRepository)(nil)

// Close closes the connection pool.
func (r *WorkOrderRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the tables if they do not exist. Schema evolution
// beyond bootstrap is handled operationally.
func (r *WorkOrderRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS work_orders (
			user_name      TEXT NOT NULL,
			id             TEXT NOT NULL,
			service_code   TEXT NOT NULL,
			store_number   TEXT NOT NULL DEFAULT '',
			chain          TEXT NOT NULL DEFAULT '',
			scheduled_date TIMESTAMPTZ,
			instructions   TEXT NOT NULL DEFAULT '',
			new_store      BOOLEAN NOT NULL DEFAULT FALSE,
			remodel        BOOLEAN NOT NULL DEFAULT FALSE,
			multi_day      BOOLEAN NOT NULL DEFAULT FALSE,
			priority       BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (user_name, id)
		);
		CREATE TABLE IF NOT EXISTS dispensers (
			user_name     TEXT NOT NULL,
			work_order_id TEXT NOT NULL,
			id            TEXT NOT NULL,
			number        INT NOT NULL,
			grades        TEXT[] NOT NULL DEFAULT '{}',
			make          TEXT NOT NULL DEFAULT '',
			model         TEXT NOT NULL DEFAULT '',
			serial        TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (user_name, work_order_id, id),
			FOREIGN KEY (user_name, work_order_id)
				REFERENCES work_orders (user_name, id) ON DELETE CASCADE
		);
	`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ReplaceSnapshot replaces the user's stored orders with a fresh scrape
// snapshot in one transaction.
func (r *WorkOrderRepository) ReplaceSnapshot(ctx context.Context, user string, orders []filter.WorkOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM work_orders WHERE user_name = $1`, user); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	for _, wo := range orders {
		if err := insertWorkOrder(ctx, tx, user, wo); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Upsert stores or replaces one work order and its dispensers.
func (r *WorkOrderRepository) Upsert(ctx context.Context, user string, order filter.WorkOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_orders WHERE user_name = $1 AND id = $2`, user, order.ID); err != nil {
		return fmt.Errorf("clear work order %s: %w", order.ID, err)
	}
	if err := insertWorkOrder(ctx, tx, user, order); err != nil {
		return err
	}

	return tx.Commit()
}

func insertWorkOrder(ctx context.Context, tx *sql.Tx, user string, wo filter.WorkOrder) error {
	var scheduled *time.Time
	if !wo.ScheduledDate.IsZero() {
		scheduled = &wo.ScheduledDate
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_orders
			(user_name, id, service_code, store_number, chain, scheduled_date,
			 instructions, new_store, remodel, multi_day, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user, wo.ID, string(wo.ServiceCode), wo.StoreNumber, string(wo.Chain), scheduled,
		wo.Instructions, wo.Special.NewStore, wo.Special.Remodel, wo.Special.MultiDay, wo.Special.Priority)
	if err != nil {
		return fmt.Errorf("insert work order %s: %w", wo.ID, err)
	}

	if len(wo.Dispensers) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dispensers
			(user_name, work_order_id, id, number, grades, make, model, serial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("prepare dispenser insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range wo.Dispensers {
		if _, err := stmt.ExecContext(ctx, user, wo.ID, d.ID, d.Number,
			pq.Array(d.RawGrades), d.Make, d.Model, d.Serial); err != nil {
			return fmt.Errorf("insert dispenser %s/%s: %w", wo.ID, d.ID, err)
		}
	}
	return nil
}

// List returns the user's work orders with dispensers hydrated, sorted
// by id.
func (r *WorkOrderRepository) List(ctx context.Context, user string) ([]filter.WorkOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service_code, store_number, chain, scheduled_date,
		       instructions, new_store, remodel, multi_day, priority
		FROM work_orders
		WHERE user_name = $1
		ORDER BY id
	`, user)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var orders []filter.WorkOrder
	index := make(map[string]int)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		index[wo.ID] = len(orders)
		orders = append(orders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	drows, err := r.db.QueryContext(ctx, `
		SELECT work_order_id, id, number, grades, make, model, serial
		FROM dispensers
		WHERE user_name = $1
		ORDER BY work_order_id, number
	`, user)
	if err != nil {
		return nil, fmt.Errorf("list dispensers: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var woID string
		var d filter.Dispenser
		if err := drows.Scan(&woID, &d.ID, &d.Number, pq.Array(&d.RawGrades),
			&d.Make, &d.Model, &d.Serial); err != nil {
			return nil, fmt.Errorf("scan dispenser: %w", err)
		}
		if i, ok := index[woID]; ok {
			orders[i].Dispensers = append(orders[i].Dispensers, d)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("list dispensers: %w", err)
	}

	return orders, nil
}

// Get returns one work order with dispensers hydrated.
func (r *WorkOrderRepository) Get(ctx context.Context, user, id string) (filter.WorkOrder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, service_code, store_number, chain, scheduled_date,
		       instructions, new_store, remodel, multi_day, priority
		FROM work_orders
		WHERE user_name = $1 AND id = $2
	`, user, id)

	wo, err := scanWorkOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return filter.WorkOrder{}, repositories.ErrNotFound
	}
	if err != nil {
		return filter.WorkOrder{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, grades, make, model, serial
		FROM dispensers
		WHERE user_name = $1 AND work_order_id = $2
		ORDER BY number
	`, user, id)
	if err != nil {
		return filter.WorkOrder{}, fmt.Errorf("get dispensers for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d filter.Dispenser
		if err := rows.Scan(&d.ID, &d.Number, pq.Array(&d.RawGrades),
			&d.Make, &d.Model, &d.Serial); err != nil {
			return filter.WorkOrder{}, fmt.Errorf("scan dispenser: %w", err)
		}
		wo.Dispensers = append(wo.Dispensers, d)
	}
	if err := rows.Err(); err != nil {
		return filter.WorkOrder{}, fmt.Errorf("get dispensers for %s: %w", id, err)
	}

	return wo, nil
}

// Delete removes one work order; dispensers cascade.
func (r *WorkOrderRepository) Delete(ctx context.Context, user, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM work_orders WHERE user_name = $1 AND id = $2`, user, id)
	if err != nil {
		return fmt.Errorf("delete work order %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete work order %s: %w", id, err)
	}
	if affected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkOrder(row rowScanner) (filter.WorkOrder, error) {
	var wo filter.WorkOrder
	var code, chain string
	var scheduled sql.NullTime
	if err := row.Scan(&wo.ID, &code, &wo.StoreNumber, &chain, &scheduled,
		&wo.Instructions, &wo.Special.NewStore, &wo.Special.Remodel,
		&wo.Special.MultiDay, &wo.Special.Priority); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return filter.WorkOrder{}, err
		}
		return filter.WorkOrder{}, fmt.Errorf("scan work order: %w", err)
	}
	wo.ServiceCode = filter.ServiceCode(code)
	wo.Chain = filter.Chain(chain)
	if scheduled.Valid {
		wo.ScheduledDate = scheduled.Time
	}
	return wo, nil
}
