package repository

import (
	"context"
	"errors"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 明細はID順で読む
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id asc")
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ?", orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByClientID(ctx context.Context, clientID int64, ascending bool) ([]model.Order, error) {
	dir := "desc"
	if ascending {
		dir = "asc"
	}

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("client_id = ?", clientID).
		Order("order_date " + dir).
		Order("id " + dir).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	//client_id 絞り込み
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("order_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("order_date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	offset := (f.Page - 1) * f.Limit
	err := q.Preload("Items", preloadItems).
		Order("order_date desc").
		Order("id desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return orders, total, nil
}

// ヘッダだけinsert（Itemsは別で保存する）
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total model.Money) error {
	return r.updateColumn(ctx, orderID, "total_amount", total)
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.updateColumn(ctx, orderID, "status", status)
}

func (r *OrderGormRepository) UpdateNotes(ctx context.Context, orderID int64, notes string) error {
	return r.updateColumn(ctx, orderID, "notes", notes)
}

func (r *OrderGormRepository) updateColumn(ctx context.Context, orderID int64, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update(column, value)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 件数・合計・最終注文日。キャンセル済みも含める
func (r *OrderGormRepository) StatsByClientID(ctx context.Context, clientID int64) (model.ClientStats, error) {
	stats := model.ClientStats{TotalSpent: decimal.Zero}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Order{}).Where("client_id = ?", clientID)
	}

	if err := base().Count(&stats.OrderCount).Error; err != nil {
		return model.ClientStats{}, err
	}
	if stats.OrderCount == 0 {
		return stats, nil
	}

	var sum decimal.NullDecimal
	if err := base().Select("SUM(total_amount)").Row().Scan(&sum); err != nil {
		return model.ClientStats{}, err
	}
	if sum.Valid {
		stats.TotalSpent = sum.Decimal
	}

	//MAX()はドライバによって文字列で返るので、最新の1件を読む
	var latest model.Order
	if err := base().Order("order_date desc").Order("id desc").First(&latest).Error; err != nil {
		return model.ClientStats{}, err
	}
	last := latest.OrderDate
	stats.LastOrderDate = &last

	return stats, nil
}
