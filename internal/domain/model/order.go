package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// キャンセル不可の状態
var ErrInvalidTransition = errors.New("only PENDING or PREPARING orders can be cancelled")

// キャンセル済みからは動かせない
var ErrOrderCancelled = errors.New("cancelled orders cannot change status")

type Order struct {
	ID       int64       `gorm:"primaryKey;autoIncrement"`
	ClientID int64       `gorm:"not null;index"`
	Client   *Client     `gorm:"foreignKey:ClientID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	TotalAmount Money       `gorm:"type:numeric(12,2);not null"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index"`

	//一度だけ設定（更新しない）
	OrderDate time.Time `gorm:"not null;index"`

	DeliveryAddress string `gorm:"type:varchar(500);not null"`
	PhoneNumber     string `gorm:"type:varchar(30);not null"`
	Notes           string `gorm:"type:text"`

	//注文時点の顧客情報スナップショット
	ClientEmail    string `gorm:"type:varchar(255);not null"`
	ClientFullName string `gorm:"column:client_fullname;type:varchar(255);not null"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

// NewOrderは受付待ちの注文ヘッダを作る。顧客のメール・氏名はここでコピーする
func NewOrder(client Client, deliveryAddress, phone, notes string, now time.Time) Order {
	return Order{
		ClientID:        client.ID,
		Status:          OrderStatusPending,
		TotalAmount:     decimal.Zero,
		OrderDate:       now,
		DeliveryAddress: deliveryAddress,
		PhoneNumber:     phone,
		Notes:           notes,
		ClientEmail:     client.Email,
		ClientFullName:  client.FullName(),
		UpdatedAt:       now,
	}
}

// 明細を追加して合計を再計算
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecalculateTotal()
}

// 合計 = Σ(単価×数量)
func (o *Order) RecalculateTotal() {
	o.TotalAmount = SumSubtotals(o.Items)
}

func SumSubtotals(items []OrderItem) Money {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Cancelは状態をキャンセルにし、理由があればメモへ追記する
func (o *Order) Cancel(reason string, now time.Time) error {
	if !o.Status.Cancellable() {
		return ErrInvalidTransition
	}
	o.Status = OrderStatusCancelled
	o.Notes = AppendCancellationNote(o.Notes, reason, now)
	return nil
}

// 既存メモは消さずに改行で追記する
func AppendCancellationNote(notes, reason string, at time.Time) string {
	if isBlank(reason) {
		return notes
	}
	line := fmt.Sprintf("Cancelled on %s — Reason: %s", at.Format("2006-01-02 15:04:05"), reason)
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

// 再注文のメモ
func ReorderNote(sourceOrderID int64) string {
	return fmt.Sprintf("Reordered from order #%d", sourceOrderID)
}
