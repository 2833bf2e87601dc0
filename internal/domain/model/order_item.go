package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 注文明細。料理名と単価は注文時点のコピー（メニューの価格変更に追従しない）
type OrderItem struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	OrderID  int64  `gorm:"not null;index"`
	DishID   int64  `gorm:"not null;index"`
	DishName string `gorm:"type:varchar(255);not null"`
	Price    Money  `gorm:"type:numeric(12,2);not null"`
	Quantity int64  `gorm:"not null"`
}

// NewOrderItemは料理の現在の名前と価格をスナップショットする
func NewOrderItem(dish Dish, quantity int64) OrderItem {
	return OrderItem{
		DishID:   dish.ID,
		DishName: dish.Name,
		Price:    dish.Price,
		Quantity: quantity,
	}
}

func (it OrderItem) Subtotal() Money {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
