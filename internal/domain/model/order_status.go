package model

import "strings"

// 注文ステータス。保存値は厨房側の正規コード
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "EN_ATTENTE"
	OrderStatusConfirmed      OrderStatus = "CONFIRMEE"
	OrderStatusPreparing      OrderStatus = "EN_PREPARATION"
	OrderStatusReady          OrderStatus = "PRET"
	OrderStatusOutForDelivery OrderStatus = "EN_LIVRAISON"
	OrderStatusDelivered      OrderStatus = "LIVREE"
	OrderStatusCancelled      OrderStatus = "ANNULEE"
)

// 全ステータス（前進の順）
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// 外部の語彙（英語・アクセント付き）→正規コード
var statusAliases = map[string]OrderStatus{
	"PENDING":          OrderStatusPending,
	"CONFIRMED":        OrderStatusConfirmed,
	"CONFIRMÉE":        OrderStatusConfirmed,
	"PREPARING":        OrderStatusPreparing,
	"READY":            OrderStatusReady,
	"PRÊT":             OrderStatusReady,
	"ON_DELIVERY":      OrderStatusOutForDelivery,
	"OUT_FOR_DELIVERY": OrderStatusOutForDelivery,
	"DELIVERED":        OrderStatusDelivered,
	"LIVRÉE":           OrderStatusDelivered,
	"CANCELLED":        OrderStatusCancelled,
	"CANCELED":         OrderStatusCancelled,
	"ANNULÉE":          OrderStatusCancelled,
}

// 絞り込みで「全部」を意味する語
func IsAllStatusToken(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	return t == "" || t == "ALL" || t == "TOUS"
}

// TranslateStatusTokenは外部トークンを正規コードへ変換する。
// 知らないトークンはそのまま（大文字化のみ）返すので、どの注文にも一致しない。
func TranslateStatusToken(token string) OrderStatus {
	t := strings.ToUpper(strings.TrimSpace(token))
	if s, ok := statusAliases[t]; ok {
		return s
	}
	return OrderStatus(t)
}

// ParseOrderStatusは既知のステータスだけを受け付ける
func ParseOrderStatus(token string) (OrderStatus, bool) {
	s := TranslateStatusToken(token)
	return s, s.Valid()
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// 大文字小文字を無視して比較
func (s OrderStatus) Matches(other OrderStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// キャンセルできるのは受付待ちと調理中だけ
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}

// 前進の遷移は検証しない。戻れないのはキャンセル済みだけ
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled
}
