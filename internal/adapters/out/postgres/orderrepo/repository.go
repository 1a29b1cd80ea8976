package orderrepo

import (
	"context"
	"encoding/json"
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// undefinedColumnCode is the Postgres error code for a missing column.
// Deployments that predate the status_history column hit it on every
// combined write; the repository surfaces it as a schema mismatch so the
// caller can retry on the narrow path.
const undefinedColumnCode = "42703"

// statusWriteSavepoint guards the combined write inside a transaction.
// Postgres aborts the whole transaction on a statement error; rolling back
// to the savepoint lets the status-only fallback run on the same unit of
// work.
const statusWriteSavepoint = "status_history_write"

// isUndefinedColumn reports whether the error is a Postgres 42703. The GORM
// dialector speaks pgx and surfaces *pgconn.PgError; the lib/pq form is
// matched as well for code paths on the listener connection.
func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedColumnCode
	}

	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == undefinedColumnCode
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveForDriver retrieves the driver's non-terminal, non-archived
// orders. The terminal filter runs after canonicalization: the raw status
// vocabulary is too heterogeneous to filter in SQL.
func (r *GormOrderRepository) GetActiveForDriver(
	ctx context.Context,
	driverID kernel.UUID,
) ([]*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID.Bytes()).
		Where("COALESCE(archived, FALSE) = FALSE").
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		if o.IsTerminal() {
			continue
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// UpdateStatus writes the status and the full history in one statement.
// A missing history column surfaces as a SchemaMismatchError; zero affected
// rows as a StaleStateError.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	id kernel.UUID,
	status order.Status,
	history []order.StatusEntry,
) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return err
	}

	inTx := r.inTransaction()
	if inTx {
		if spErr := r.db.SavePoint(statusWriteSavepoint).Error; spErr != nil {
			return spErr
		}
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"status":         status.WireLabel(),
			"status_history": JSONColumn(historyJSON),
		})
	if result.Error != nil {
		if isUndefinedColumn(result.Error) {
			if inTx {
				if rbErr := r.db.RollbackTo(statusWriteSavepoint).Error; rbErr != nil {
					return rbErr
				}
			}
			return errs.NewSchemaMismatchError("status_history", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleStateError("order", id.String())
	}

	return nil
}

// inTransaction reports whether the repository's connection is a transaction
// rather than the root pool.
func (r *GormOrderRepository) inTransaction() bool {
	committer, ok := r.db.Statement.ConnPool.(gorm.TxCommitter)
	return ok && committer != nil
}

// UpdateStatusOnly writes the status field alone. Used exactly once as the
// degraded fallback after UpdateStatus reported a schema mismatch.
func (r *GormOrderRepository) UpdateStatusOnly(ctx context.Context, id kernel.UUID, status order.Status) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Update("status", status.WireLabel())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewStaleStateError("order", id.String())
	}

	return nil
}

// Add saves a new order row. Only tests and seeding use it; production
// orders are created by the upstream system.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
