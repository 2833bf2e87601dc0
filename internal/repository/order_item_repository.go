package repository

import (
	"context"

	"darkitchen/internal/domain/model"
)

type OrderItemRepository interface {
	// itemsにIDとOrderIDが埋まる
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
}
