package repository

import (
	"context"
	"errors"
	"gameshop/internal/model"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*model.Order, error)
	FindByIDOrRemoteID(ctx context.Context, key string) (*model.Order, error)
	AttachRemote(ctx context.Context, id uint, remoteID, redirectURL string) error
	Delete(ctx context.Context, id uint) error
	ApplyStatus(ctx context.Context, id uint, status model.PaymentStatus, at time.Time) (*model.Order, error)
	UpdateReturnURLs(ctx context.Context, id uint, returnURL string, negativeReturnURL *string) error
	List(ctx context.Context, page, perPage int) ([]*model.Order, int64, error)
	ListPaidSince(ctx context.Context, from time.Time) ([]model.PaidOrder, error)
	PaidTotals(ctx context.Context, from *time.Time) (*model.PaidTotals, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByRemoteID(ctx context.Context, remoteID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("cashbill_order_id = ?", remoteID).
		First(&order).Error

	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

// FindByIDOrRemoteID resolves a client supplied key. A numeric key is tried as a local
// id first, then as a CashBill transaction id.
func (r *orderRepoImpl) FindByIDOrRemoteID(ctx context.Context, key string) (*model.Order, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil && id > 0 {
		order, err := r.FindByID(ctx, uint(id))
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return r.FindByRemoteID(ctx, key)
}

func (r *orderRepoImpl) AttachRemote(ctx context.Context, id uint, remoteID, redirectURL string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cashbill_order_id": remoteID,
			"redirect_url":      redirectURL,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Order{}, id).Error
}

// ApplyStatus overwrites the status. paid_at is written only the first time
// the order reaches PositiveFinish.
func (r *orderRepoImpl) ApplyStatus(ctx context.Context, id uint, status model.PaymentStatus, at time.Time) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": at,
		}
		if status == model.StatusPositiveFinish {
			updates["paid_at"] = gorm.Expr("COALESCE(paid_at, ?)", at)
		}

		if err := tx.Model(&model.Order{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).First(&order).Error
	})

	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

func (r *orderRepoImpl) UpdateReturnURLs(ctx context.Context, id uint, returnURL string, negativeReturnURL *string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"return_url":          returnURL,
			"negative_return_url": negativeReturnURL,
			"updated_at":          time.Now(),
		}).Error
}

func (r *orderRepoImpl) List(ctx context.Context, page, perPage int) ([]*model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&orders).Error

	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepoImpl) paid(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.StatusPositiveFinish).
		Where("paid_at IS NOT NULL")
}

func (r *orderRepoImpl) ListPaidSince(ctx context.Context, from time.Time) ([]model.PaidOrder, error) {
	var rows []model.PaidOrder
	err := r.paid(ctx).
		Select("paid_at, amount").
		Where("paid_at >= ?", from).
		Order("paid_at ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

// PaidTotals counts and sums paid orders, all time when from is nil.
func (r *orderRepoImpl) PaidTotals(ctx context.Context, from *time.Time) (*model.PaidTotals, error) {
	q := r.paid(ctx)
	if from != nil {
		q = q.Where("paid_at >= ?", *from)
	}

	var totals model.PaidTotals
	err := q.Select("COUNT(*) AS orders_count, COALESCE(SUM(amount), 0) AS revenue").
		Scan(&totals).Error

	if err != nil {
		return nil, err
	}

	return &totals, nil
}
