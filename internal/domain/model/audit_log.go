package model

import "time"

// 注文ステータス更新、キャンセルなど。
type AuditAction string

const (
	//スタッフによるステータス更新
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//キャンセル
	AuditActionCancelOrder AuditAction = "CANCEL_ORDER"
	//再注文（新しい注文を作った）
	AuditActionReorder AuditAction = "REORDER"
	//認証情報の変更
	AuditActionChangeCredential AuditAction = "CHANGE_CREDENTIAL"
	//顧客の停止・再開
	AuditActionSetClientActive AuditAction = "SET_CLIENT_ACTIVE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder  AuditResourceType = "order"
	AuditResourceClient AuditResourceType = "client"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した人（"client:12" / "staff:3" / updatedByの値など）
	Actor string `gorm:"type:varchar(100);not null;index" json:"actor"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   int64             `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before"`
	AfterJSON  string `gorm:"type:text" json:"after"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
