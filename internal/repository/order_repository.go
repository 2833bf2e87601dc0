package repository

import (
	"context"
	"time"

	"darkitchen/internal/domain/model"
)

// スタッフ用の注文一覧の条件
type OrderListFilter struct {
	Page     int
	Limit    int
	Status   *model.OrderStatus
	ClientID *int64
	From     *time.Time
	To       *time.Time
}

type OrderRepository interface {
	//明細込みで1件取得
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//顧客の注文を注文日時順に（明細込み）
	ListByClientID(ctx context.Context, clientID int64, ascending bool) ([]model.Order, error)

	//スタッフ用の一覧（新しい順、明細込み）
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//ヘッダだけ作成（明細は OrderItemRepository）。IDを埋める
	Create(ctx context.Context, order *model.Order) error

	UpdateTotal(ctx context.Context, orderID int64, total model.Money) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateNotes(ctx context.Context, orderID int64, notes string) error

	//顧客ごとの集計（件数・合計・最終注文日）
	StatsByClientID(ctx context.Context, clientID int64) (model.ClientStats, error)
}
