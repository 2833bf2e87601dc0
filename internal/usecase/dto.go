package usecase

import (
	"context"
	"encoding/json"
	"time"

	"darkitchen/internal/domain/model"
)

// usecaseがValidatorInterfaceに依存する約束
type InputValidator interface {
	ValidateCheckout(ctx context.Context, in CheckoutInput) error
	ValidateCredentialChangeInput(ctx context.Context, current, next string) error
	ValidateNewCredential(ctx context.Context, current, next string) error
}

type OrderItemOutput struct {
	DishID   int64       `json:"dishId"`
	DishName string      `json:"dishName"`
	Quantity int64       `json:"quantity"`
	Price    model.Money `json:"price"`
	Subtotal model.Money `json:"subtotal"`
}

type OrderOutput struct {
	OrderID         int64             `json:"orderId"`
	ClientID        int64             `json:"clientId"`
	Status          model.OrderStatus `json:"status"`
	TotalAmount     model.Money       `json:"totalAmount"`
	OrderDate       time.Time         `json:"orderDate"`
	DeliveryAddress string            `json:"deliveryAddress"`
	PhoneNumber     string            `json:"phoneNumber"`
	Notes           string            `json:"notes"`
	ClientEmail     string            `json:"clientEmail"`
	ClientFullName  string            `json:"clientFullName"`
	Items           []OrderItemOutput `json:"items"`
}

// 小計は明細から計算し直す
func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			DishID:   it.DishID,
			DishName: it.DishName,
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal(),
		})
	}

	return OrderOutput{
		OrderID:         o.ID,
		ClientID:        o.ClientID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		OrderDate:       o.OrderDate,
		DeliveryAddress: o.DeliveryAddress,
		PhoneNumber:     o.PhoneNumber,
		Notes:           o.Notes,
		ClientEmail:     o.ClientEmail,
		ClientFullName:  o.ClientFullName,
		Items:           items,
	}
}

type ClientOutput struct {
	ID               int64     `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phoneNumber"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	PostalCode       string    `json:"postalCode"`
	Active           bool      `json:"active"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// 認証情報は返さない
func ToClientOutput(c model.Client) ClientOutput {
	return ClientOutput{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		FullName:         c.FullName(),
		Email:            c.Email,
		PhoneNumber:      c.PhoneNumber,
		Address:          c.Address,
		City:             c.City,
		PostalCode:       c.PostalCode,
		Active:           c.Active,
		RegistrationDate: c.RegistrationDate,
	}
}

// 監査ログ1件を作る。before/afterはJSONにする
func newAuditLog(
	actor string,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
	now time.Time,
) model.AuditLog {
	return model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    now,
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// 認証無しの注文画面からの操作
const ActorPublic = "public"
